// Package nominatim provides a client for the OpenStreetMap Nominatim geocoding API.
package nominatim

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "property-geocoder/1.0 (+https://github.com/sells-group/property-geocoder)"
)

// Client resolves free-text queries and coordinates against Nominatim.
type Client interface {
	// Search performs a forward geocode and returns candidate places,
	// best match first. An empty slice means Nominatim found nothing.
	Search(ctx context.Context, params SearchParams) ([]Place, error)

	// Reverse resolves a coordinate pair to the nearest addressable place.
	// A nil place means the coordinates could not be resolved.
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
}

// SearchParams holds the inputs for a forward geocode request.
type SearchParams struct {
	Query        string
	CountryCodes string // comma-separated ISO 3166-1 alpha-2 codes, empty = unrestricted
	Limit        int    // max candidates, 0 = Nominatim default
}

// Place is a single result from the Nominatim jsonv2 format. Lat and Lon
// are kept as the wire strings; use Coordinates to parse them.
type Place struct {
	PlaceID     int64   `json:"place_id"`
	OSMType     string  `json:"osm_type"`
	OSMID       int64   `json:"osm_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
	Address     Address `json:"address"`
}

// Address holds the structured address detail of a place.
type Address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	County      string `json:"county"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// Coordinates parses the place's latitude and longitude into decimal degrees.
func (p Place) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "nominatim: parse lat %q", p.Lat)
	}
	lon, err = strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "nominatim: parse lon %q", p.Lon)
	}
	return lat, lon, nil
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// Nominatim's usage policy requires an identifying agent.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithEmail adds the email parameter to every request, as Nominatim asks
// of larger-volume users.
func WithEmail(email string) Option {
	return func(c *client) {
		c.email = email
	}
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	email      string
	limiter    *rate.Limiter
}

// NewClient creates a new Nominatim Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		limiter:    rate.NewLimiter(1, 1), // Nominatim usage policy: max 1 req/s
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
