package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/density-cli/internal/config"
	"github.com/sells-group/density-cli/internal/insights"
	"github.com/sells-group/density-cli/internal/store"
	"github.com/sells-group/density-cli/pkg/areainsights"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "density-cli",
	Short: "Business density analysis for site selection",
	Long:  "Queries the Area Insights aggregation endpoint for business counts within a bounded area and classifies the result into a competition tier with recommendations, risks, and opportunities.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initAnalyzer builds the analyzer from config. The API key check runs
// here so misconfiguration surfaces before any network attempt.
func initAnalyzer() (*insights.Analyzer, error) {
	if cfg.Google.APIKey == "" {
		return nil, &insights.ConfigurationError{Setting: "google.api_key"}
	}

	client := areainsights.NewClient(cfg.Google.APIKey,
		areainsights.WithBaseURL(cfg.Google.BaseURL),
		areainsights.WithRateLimit(cfg.Google.RateLimit),
	)

	return insights.NewAnalyzer(client, insights.ExecutorConfig{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		RadiusFloorMeters: cfg.Retry.RadiusFloorMeters,
	}), nil
}

func initStore() (store.Store, error) {
	return store.NewSQLite(cfg.Store.Path)
}

// newRecordID generates an ID for history records of failed analyses,
// which never produced an Analysis carrying its own ID.
func newRecordID() string {
	return uuid.NewString()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
