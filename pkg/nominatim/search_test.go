package nominatim

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const alamoJSON = `[{
	"place_id": 281615321,
	"osm_type": "way",
	"osm_id": 30208306,
	"lat": "29.4259671",
	"lon": "-98.4861419",
	"category": "historic",
	"type": "fort",
	"display_name": "The Alamo, Alamo Plaza, San Antonio, Bexar County, Texas, 78205, United States",
	"importance": 0.62,
	"address": {
		"city": "San Antonio",
		"county": "Bexar County",
		"state": "Texas",
		"postcode": "78205",
		"country": "United States",
		"country_code": "us"
	}
}]`

// newTestClient builds a client against srv with an unlimited rate limiter.
func newTestClient(srv *httptest.Server, opts ...Option) *client {
	c := NewClient(append([]Option{WithBaseURL(srv.URL)}, opts...)...).(*client)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestSearch_Match(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, alamoJSON)
	}))
	defer srv.Close()

	c := newTestClient(srv, WithUserAgent("test-agent/1.0"))
	places, err := c.Search(context.Background(), SearchParams{
		Query:        "The Alamo",
		CountryCodes: "us",
		Limit:        1,
	})
	require.NoError(t, err)
	require.Len(t, places, 1)

	p := places[0]
	assert.Equal(t, int64(281615321), p.PlaceID)
	assert.Equal(t, "historic", p.Category)
	assert.Equal(t, "fort", p.Type)
	assert.Equal(t, "Texas", p.Address.State)

	lat, lon, err := p.Coordinates()
	require.NoError(t, err)
	assert.InDelta(t, 29.4259671, lat, 1e-7)
	assert.InDelta(t, -98.4861419, lon, 1e-7)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Contains(t, gotQuery, "q=The+Alamo")
	assert.Contains(t, gotQuery, "format=jsonv2")
	assert.Contains(t, gotQuery, "addressdetails=1")
	assert.Contains(t, gotQuery, "limit=1")
	assert.Contains(t, gotQuery, "countrycodes=us")
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	places, err := newTestClient(srv).Search(context.Background(), SearchParams{Query: "no such place"})
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected for an empty query")
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), SearchParams{})
	assert.Error(t, err)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), SearchParams{Query: "The Alamo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_OptionalParamsOmitted(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), SearchParams{Query: "somewhere"})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "countrycodes")
	assert.NotContains(t, gotQuery, "limit")
	assert.NotContains(t, gotQuery, "email")
}

func TestSearch_EmailParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := newTestClient(srv, WithEmail("ops@example.com"))
	_, err := c.Search(context.Background(), SearchParams{Query: "somewhere"})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "email=ops%40example.com")
}

func TestSearch_RateLimitSharedAcrossGoroutines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	// One client, real limiter: 4 concurrent searches at 50 req/s must be
	// spread over at least 3 limiter intervals (60ms), regardless of how
	// many goroutines issue them.
	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(50))

	const calls = 4
	start := time.Now()

	var wg sync.WaitGroup
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Search(context.Background(), SearchParams{Query: "The Alamo"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	minElapsed := time.Duration(calls-1) * (time.Second / 50)
	assert.GreaterOrEqual(t, elapsed, minElapsed,
		"concurrent searches must be paced by the shared limiter")
}

func TestCoordinates_BadLat(t *testing.T) {
	p := Place{Lat: "not-a-number", Lon: "-98.4"}
	_, _, err := p.Coordinates()
	assert.Error(t, err)
}
