// Package lookup orchestrates a batch of forward geocode queries.
package lookup

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/property-geocoder/pkg/nominatim"
)

// Status classifies the outcome of a single query.
type Status string

const (
	// StatusFound means coordinates were obtained for the query.
	StatusFound Status = "found"
	// StatusNotFound means Nominatim answered but had no match.
	StatusNotFound Status = "not_found"
	// StatusError means the lookup failed (transport, HTTP, or parse).
	StatusError Status = "error"
)

// Record is the outcome of one geocode query. A query with multiple
// candidate matches produces one Record per candidate. Coordinates are
// always serialized; 0.0 is a valid latitude or longitude, so presence
// of the keys must not depend on the value.
type Record struct {
	Query       string  `json:"query"`
	DisplayName string  `json:"display_name,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Class       string  `json:"class,omitempty"`
	Type        string  `json:"type,omitempty"`
	Status      Status  `json:"status"`
	Error       string  `json:"error,omitempty"`
}

// Options controls a batch run.
type Options struct {
	Country     string // ISO country code passed as countrycodes, empty = unrestricted
	Limit       int    // candidate matches per query, minimum 1
	Concurrency int    // concurrent lookups, minimum 1
}

// Runner geocodes batches of property names.
type Runner struct {
	client nominatim.Client
}

// New creates a Runner backed by the given client.
func New(client nominatim.Client) *Runner {
	return &Runner{client: client}
}

// Run geocodes names and returns records in input order. Duplicate names are
// looked up once; each occurrence still yields its own output rows. Individual
// failures are recorded, not returned, so a bad name never aborts the batch.
func (r *Runner) Run(ctx context.Context, names []string, opts Options) []Record {
	if opts.Limit < 1 {
		opts.Limit = 1
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	// Dedupe while preserving first-seen order.
	seen := make(map[string]int, len(names))
	var unique []string
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			seen[name] = len(unique)
			unique = append(unique, name)
		}
	}

	byName := make([][]Record, len(unique))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, name := range unique {
		g.Go(func() error {
			byName[i] = r.lookupOne(gCtx, name, opts)
			return nil
		})
	}
	_ = g.Wait()

	// Expand back to input order.
	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, byName[seen[name]]...)
	}
	return records
}

// lookupOne geocodes a single name into one or more records.
func (r *Runner) lookupOne(ctx context.Context, name string, opts Options) []Record {
	places, err := r.client.Search(ctx, nominatim.SearchParams{
		Query:        name,
		CountryCodes: opts.Country,
		Limit:        opts.Limit,
	})
	if err != nil {
		zap.L().Error("lookup failed", zap.String("query", name), zap.Error(err))
		return []Record{{Query: name, Status: StatusError, Error: err.Error()}}
	}

	if len(places) == 0 {
		zap.L().Info("no match", zap.String("query", name))
		return []Record{{Query: name, Status: StatusNotFound}}
	}

	records := make([]Record, 0, len(places))
	for _, place := range places {
		lat, lon, coordErr := place.Coordinates()
		if coordErr != nil {
			zap.L().Error("bad coordinates in match",
				zap.String("query", name),
				zap.String("display_name", place.DisplayName),
				zap.Error(coordErr),
			)
			records = append(records, Record{
				Query:       name,
				DisplayName: place.DisplayName,
				Class:       place.Category,
				Type:        place.Type,
				Status:      StatusError,
				Error:       coordErr.Error(),
			})
			continue
		}

		zap.L().Info("match",
			zap.String("query", name),
			zap.String("display_name", place.DisplayName),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		records = append(records, Record{
			Query:       name,
			DisplayName: place.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
			Class:       place.Category,
			Type:        place.Type,
			Status:      StatusFound,
		})
	}
	return records
}

// Summary counts records by status.
type Summary struct {
	Found    int
	NotFound int
	Errored  int
}

// Summarize tallies record statuses.
func Summarize(records []Record) Summary {
	var s Summary
	for _, rec := range records {
		switch rec.Status {
		case StatusFound:
			s.Found++
		case StatusNotFound:
			s.NotFound++
		case StatusError:
			s.Errored++
		}
	}
	return s
}
