// Package output renders lookup records as CSV, a console table, or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/sells-group/property-geocoder/internal/lookup"
)

// csvColumns defines the ordered CSV output columns.
var csvColumns = []string{
	"query",
	"display_name",
	"latitude",
	"longitude",
	"type",
	"class",
	"status",
}

// WriteCSV writes records as CSV with a header row. Coordinates of
// unresolved records are left empty rather than written as zeros.
func WriteCSV(w io.Writer, records []lookup.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "output: write csv header")
	}

	for _, rec := range records {
		lat, lon := "", ""
		if rec.Status == lookup.StatusFound {
			lat = formatCoord(rec.Latitude)
			lon = formatCoord(rec.Longitude)
		}
		row := []string{rec.Query, rec.DisplayName, lat, lon, rec.Type, rec.Class, string(rec.Status)}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "output: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "output: flush csv")
}

// WriteTable writes a tabular representation of records to w.
func WriteTable(w io.Writer, records []lookup.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "QUERY\tADDRESS\tLAT\tLON\tSTATUS")
	_, _ = fmt.Fprintln(tw, "-----\t-------\t---\t---\t------")

	for _, rec := range records {
		lat, lon := "-", "-"
		if rec.Status == lookup.StatusFound {
			lat = formatCoord(rec.Latitude)
			lon = formatCoord(rec.Longitude)
		}

		addr := truncate(rec.DisplayName, 60)
		if rec.Status == lookup.StatusError {
			addr = truncate(rec.Error, 60)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			truncate(rec.Query, 40),
			addr,
			lat,
			lon,
			rec.Status,
		)
	}
	_ = tw.Flush()
}

// WriteJSON writes records as indented JSON.
func WriteJSON(w io.Writer, records []lookup.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(records), "output: encode json")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate shortens s to max runes. Display names are international text,
// so slicing must never split a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
