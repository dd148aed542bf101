package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/internal/insights"
)

var batchFlags struct {
	file        string
	concurrency int
	places      bool
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze several areas from a CSV file",
	Long:  "Reads lat,lng,radius_m,industry,intent rows (header optional) and runs the analyses concurrently.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(batchFlags.file)
		if err != nil {
			return eris.Wrapf(err, "batch: open %s", batchFlags.file)
		}
		defer f.Close() //nolint:errcheck

		reqs, err := readBatchRequests(f)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			fmt.Fprintln(os.Stderr, "No rows to analyze.")
			return nil
		}

		analyzer, err := initAnalyzer()
		if err != nil {
			return err
		}

		items := analyzer.AnalyzeMany(ctx, reqs, batchFlags.concurrency)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROW\tCOUNT\tTIER\tRADIUS_M\tATTEMPTS\tERROR")
		failed := 0
		for i, item := range items {
			if item.Err != nil {
				failed++
				fmt.Fprintf(w, "%d\t-\t-\t-\t-\t%s\n", i+1, item.Err)
				continue
			}
			a := item.Analysis
			count, tier := "?", "-"
			if a.Count != nil {
				count = strconv.FormatInt(*a.Count, 10)
			}
			if a.Classification != nil {
				tier = a.Classification.Tier.String()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%d\t\n", i+1, count, tier, a.EffectiveRadiusMeters, a.Attempts)
		}
		if err := w.Flush(); err != nil {
			return eris.Wrap(err, "batch: flush output")
		}

		if failed > 0 {
			return eris.Errorf("batch: %d of %d analyses failed", failed, len(items))
		}
		return nil
	},
}

// readBatchRequests parses lat,lng,radius_m,industry,intent rows. The
// industry and intent columns may be empty; a header row is detected by
// a non-numeric first field and skipped.
func readBatchRequests(r io.Reader) ([]insights.Request, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var reqs []insights.Request
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "batch: read csv")
		}
		line++

		if len(row) < 3 {
			return nil, eris.Errorf("batch: row %d needs at least lat,lng,radius_m", line)
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if latErr != nil {
			if line == 1 {
				continue // header
			}
			return nil, eris.Errorf("batch: row %d: bad latitude %q", line, row[0])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, eris.Errorf("batch: row %d: bad longitude %q", line, row[1])
		}
		radius, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, eris.Errorf("batch: row %d: bad radius %q", line, row[2])
		}

		req := insights.Request{
			Filter: filter.QueryFilter{
				Location: filter.Location{
					Circle: &filter.Circle{
						Center:       filter.LatLng{Latitude: lat, Longitude: lng},
						RadiusMeters: radius,
					},
				},
			},
			IncludePlaces: batchFlags.places,
		}
		if len(row) > 3 {
			req.Industry = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			req.Intent = strings.TrimSpace(row[4])
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFlags.file, "file", "", "CSV file of areas to analyze (required)")
	batchCmd.Flags().IntVar(&batchFlags.concurrency, "concurrency", 4, "max analyses in flight")
	batchCmd.Flags().BoolVar(&batchFlags.places, "places", false, "also return matching place references")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
