package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/internal/insights"
	"github.com/sells-group/density-cli/internal/store"
)

var analyzeFlags struct {
	lat          float64
	lng          float64
	radius       float64
	region       string
	industry     string
	intent       string
	includeTypes []string
	excludeTypes []string
	primaryTypes []string
	priceLevels  []string
	minRating    float64
	maxRating    float64
	places       bool
	noSave       bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze business density for one area",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		req, err := analyzeRequestFromFlags()
		if err != nil {
			return err
		}

		analyzer, err := initAnalyzer()
		if err != nil {
			return err
		}

		analysis, runErr := analyzer.Analyze(ctx, req)

		if !analyzeFlags.noSave {
			saveAnalysis(ctx, req, analysis, runErr)
		}
		if runErr != nil {
			return runErr
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(analysis), "analyze: encode result")
	},
}

// analyzeRequestFromFlags builds the analysis request. Flag-level
// mistakes (no location at all) fail here; full filter validation
// happens inside the analyzer.
func analyzeRequestFromFlags() (insights.Request, error) {
	f := analyzeFlags

	var loc filter.Location
	switch {
	case f.region != "":
		loc.Region = f.region
	case f.lat != 0 || f.lng != 0 || f.radius != 0:
		loc.Circle = &filter.Circle{
			Center:       filter.LatLng{Latitude: f.lat, Longitude: f.lng},
			RadiusMeters: f.radius,
		}
	default:
		return insights.Request{}, eris.New("analyze: either --region or --lat/--lng/--radius is required")
	}

	qf := filter.QueryFilter{
		Location: loc,
		Types: filter.TypeFilter{
			IncludedTypes:        f.includeTypes,
			ExcludedTypes:        f.excludeTypes,
			IncludedPrimaryTypes: f.primaryTypes,
		},
		PriceLevels: f.priceLevels,
	}
	if f.minRating > 0 || f.maxRating > 0 {
		qf.Rating = &filter.RatingRange{Min: f.minRating, Max: f.maxRating}
	}

	return insights.Request{
		Filter:        qf,
		Industry:      f.industry,
		Intent:        f.intent,
		IncludePlaces: f.places,
	}, nil
}

// saveAnalysis records the invocation in the history store. Best effort:
// a store failure logs a warning but never fails the analysis itself.
func saveAnalysis(ctx context.Context, req insights.Request, analysis *insights.Analysis, runErr error) {
	st, err := initStore()
	if err != nil {
		zap.L().Warn("open history store failed", zap.Error(err))
		return
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("migrate history store failed", zap.Error(err))
		return
	}

	rec := &store.Record{
		Industry: req.Industry,
		Intent:   req.Intent,
		Request:  req,
	}
	if runErr != nil {
		rec.ID = newRecordID()
		rec.Status = store.StatusFailed
		rec.Error = runErr.Error()
	} else {
		rec.ID = analysis.ID
		rec.Status = store.StatusComplete
		rec.Analysis = analysis
	}

	if err := st.SaveRecord(ctx, rec); err != nil {
		zap.L().Warn("save analysis record failed", zap.Error(err))
	}
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeFlags.lat, "lat", 0, "circle center latitude")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.lng, "lng", 0, "circle center longitude")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.radius, "radius", 0, "circle radius in meters (1-50000)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.region, "region", "", "named region place resource (e.g. places/ChIJ...)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.industry, "industry", "", "industry preset tag (see 'density-cli industries')")
	analyzeCmd.Flags().StringVar(&analyzeFlags.intent, "intent", "", "analysis intent: density, competitor_count, location_suitability")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.includeTypes, "include-type", nil, "place type to include (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.excludeTypes, "exclude-type", nil, "place type to exclude (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.primaryTypes, "primary-type", nil, "primary place type to include (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFlags.priceLevels, "price-level", nil, "price level to include (repeatable)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.minRating, "min-rating", 0, "minimum user rating (1.0-5.0)")
	analyzeCmd.Flags().Float64Var(&analyzeFlags.maxRating, "max-rating", 0, "maximum user rating (1.0-5.0)")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.places, "places", false, "also return matching place references")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.noSave, "no-save", false, "skip recording this analysis in the history store")
	rootCmd.AddCommand(analyzeCmd)
}
