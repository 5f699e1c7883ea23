package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reverseJSON bool

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lon>",
	Short: "Resolve coordinates to the nearest address",
	Long: `Reverse-geocodes a coordinate pair to the nearest addressable place.

Examples:
  property-geocoder reverse 29.4260 -98.4861
  property-geocoder reverse --json 29.4260 -98.4861`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := parseCoordinate(args[0], -90, 90)
		if err != nil {
			return eris.Wrap(err, "reverse: latitude")
		}
		lon, err := parseCoordinate(args[1], -180, 180)
		if err != nil {
			return eris.Wrap(err, "reverse: longitude")
		}

		client := newNominatimClient(cmd)
		place, err := client.Reverse(cmd.Context(), lat, lon)
		if err != nil {
			return err
		}
		if place == nil {
			return eris.Errorf("reverse: no address found near %s, %s", args[0], args[1])
		}

		if reverseJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(place), "reverse: encode json")
		}

		fmt.Println(place.DisplayName)
		return nil
	},
}

func init() {
	reverseCmd.Flags().BoolVar(&reverseJSON, "json", false, "print the full place record as JSON")
	rootCmd.AddCommand(reverseCmd)
}

// parseCoordinate parses a decimal-degree value and checks its range.
func parseCoordinate(s string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("invalid coordinate %q", s)
	}
	if v < min || v > max {
		return 0, eris.Errorf("coordinate %q outside range [%g, %g]", s, min, max)
	}
	return v, nil
}
