package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/property-geocoder/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "property-geocoder",
	Version: "1.0.0",
	Short:   "Geocode property names via OpenStreetMap Nominatim",
	Long:    "Reads property names from a file, arguments, or piped stdin, resolves each to an address and coordinates through the Nominatim search API, and writes results as a table, CSV, or JSON.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
