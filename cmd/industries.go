package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/density-cli/internal/filter"
)

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List known industry preset tags",
	RunE: func(_ *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tDEFAULT INCLUDED TYPES")
		for _, tag := range filter.PresetTags() {
			preset, _ := filter.Preset(tag)
			types := preset.IncludedTypes
			if len(types) == 0 {
				types = preset.IncludedPrimaryTypes
			}
			fmt.Fprintf(w, "%s\t%v\n", tag, types)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(industriesCmd)
}
