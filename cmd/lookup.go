package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/property-geocoder/internal/input"
	"github.com/sells-group/property-geocoder/internal/lookup"
	"github.com/sells-group/property-geocoder/internal/output"
	"github.com/sells-group/property-geocoder/pkg/nominatim"
)

var (
	lookupFile        string
	lookupCountry     string
	lookupLimit       int
	lookupRate        float64
	lookupTimeout     int
	lookupConcurrency int
	lookupOutput      string
	lookupFormat      string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [property ...]",
	Short: "Geocode property names via the Nominatim search API",
	Long: `Geocodes each property name to its best-match address and coordinates.

Names are read from --file when given, otherwise from positional arguments,
otherwise from piped stdin (one name per line).

Examples:
  # Single name, console table
  property-geocoder lookup "The Alamo, San Antonio"

  # Newline-separated file to CSV
  property-geocoder lookup --file properties.txt --output results.csv

  # Piped input, top 3 candidates each, JSON to stdout
  cat properties.txt | property-geocoder lookup --limit 3 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Reject a bad --format up front, before any request is spent.
		format := resolveFormat(lookupFormat, lookupOutput, cmd.Flags().Changed("format"))
		if err := validateFormat(format); err != nil {
			return err
		}

		names, err := input.ReadProperties(lookupFile, args, os.Stdin, stdinIsTTY())
		if err != nil {
			return err
		}
		zap.L().Info("collected properties", zap.Int("count", len(names)))

		opts := lookup.Options{
			Country:     flagOrConfigStr(cmd, "country", lookupCountry, cfg.Lookup.Country),
			Limit:       flagOrConfigInt(cmd, "limit", lookupLimit, cfg.Lookup.Limit),
			Concurrency: flagOrConfigInt(cmd, "concurrency", lookupConcurrency, cfg.Lookup.Concurrency),
		}

		runner := lookup.New(newNominatimClient(cmd))
		records := runner.Run(ctx, names, opts)

		sum := lookup.Summarize(records)
		zap.L().Info("lookup complete",
			zap.Int("queries", len(names)),
			zap.Int("found", sum.Found),
			zap.Int("not_found", sum.NotFound),
			zap.Int("errored", sum.Errored),
		)

		if err := writeRecords(format, records); err != nil {
			return err
		}

		if sum.Found == 0 {
			return eris.New("lookup: no properties were successfully geocoded")
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupFile, "file", "f", "", "path to a newline-separated file of property names")
	lookupCmd.Flags().StringVarP(&lookupCountry, "country", "c", "us", "ISO country code to constrain results, empty for unrestricted")
	lookupCmd.Flags().IntVar(&lookupLimit, "limit", 1, "candidate matches per property")
	lookupCmd.Flags().Float64Var(&lookupRate, "rate", 1.0, "max requests per second against Nominatim")
	lookupCmd.Flags().IntVarP(&lookupTimeout, "timeout", "t", 15, "HTTP timeout in seconds")
	lookupCmd.Flags().IntVar(&lookupConcurrency, "concurrency", 1, "max concurrent lookups (shared rate limit still applies)")
	lookupCmd.Flags().StringVarP(&lookupOutput, "output", "o", "", "write results to file (default: stdout)")
	lookupCmd.Flags().StringVar(&lookupFormat, "format", "table", "output format: table, csv, or json (default csv with --output)")
	rootCmd.AddCommand(lookupCmd)
}

// newNominatimClient builds the API client from config with flag overrides.
func newNominatimClient(cmd *cobra.Command) nominatim.Client {
	rps := lookupRate
	if !cmd.Flags().Changed("rate") {
		rps = cfg.Lookup.RateRPS
	}
	timeout := flagOrConfigInt(cmd, "timeout", lookupTimeout, cfg.Lookup.TimeoutSecs)

	opts := []nominatim.Option{
		nominatim.WithBaseURL(cfg.Nominatim.BaseURL),
		nominatim.WithUserAgent(cfg.Nominatim.UserAgent),
		nominatim.WithRateLimit(rps),
		nominatim.WithHTTPClient(&http.Client{Timeout: time.Duration(timeout) * time.Second}),
	}
	if cfg.Nominatim.Email != "" {
		opts = append(opts, nominatim.WithEmail(cfg.Nominatim.Email))
	}
	return nominatim.NewClient(opts...)
}

// writeRecords writes records to the output file or stdout in the
// selected format.
func writeRecords(format string, records []lookup.Record) error {
	w := os.Stdout
	if lookupOutput != "" {
		f, err := os.Create(lookupOutput)
		if err != nil {
			return eris.Wrap(err, "lookup: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch format {
	case "csv":
		return output.WriteCSV(w, records)
	case "json":
		return output.WriteJSON(w, records)
	case "table":
		output.WriteTable(w, records)
		return nil
	default:
		return eris.Errorf("lookup: unknown format %q", format)
	}
}

// validateFormat checks --format before any lookups run.
func validateFormat(format string) error {
	switch format {
	case "table", "csv", "json":
		return nil
	default:
		return eris.Errorf("lookup: unknown format %q (expected table, csv, or json)", format)
	}
}

// resolveFormat picks the output format. Writing to a file without an
// explicit --format defaults to CSV; stdout defaults to a table.
func resolveFormat(format, outputPath string, formatSet bool) string {
	if outputPath != "" && !formatSet {
		return "csv"
	}
	return format
}

// flagOrConfigStr returns the flag value when set, the config value otherwise.
func flagOrConfigStr(cmd *cobra.Command, name, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	return cfgVal
}

// flagOrConfigInt returns the flag value when set, the config value otherwise.
func flagOrConfigInt(cmd *cobra.Command, name string, flagVal, cfgVal int) int {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	return cfgVal
}

// stdinIsTTY reports whether stdin is an interactive terminal rather than
// a pipe or redirect.
func stdinIsTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
