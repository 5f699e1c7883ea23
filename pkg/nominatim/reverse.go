package nominatim

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// reverseResponse is the /reverse payload. Nominatim reports an unresolvable
// coordinate as HTTP 200 with an error field instead of an empty body.
type reverseResponse struct {
	Place
	Error string `json:"error"`
}

// Reverse resolves a coordinate pair via the /reverse endpoint.
func (c *client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: reverse rate limit")
	}

	q := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
	}
	if c.email != "" {
		q.Set("email", c.email)
	}

	body, err := c.get(ctx, "/reverse", q)
	if err != nil {
		return nil, err
	}

	var resp reverseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "nominatim: reverse parse response")
	}

	if resp.Error != "" {
		return nil, nil
	}

	return &resp.Place, nil
}
