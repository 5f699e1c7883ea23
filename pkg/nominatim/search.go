package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// Search performs a forward geocode via the /search endpoint.
func (c *client) Search(ctx context.Context, params SearchParams) ([]Place, error) {
	if params.Query == "" {
		return nil, eris.New("nominatim: empty search query")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: search rate limit")
	}

	q := url.Values{
		"q":              {params.Query},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.CountryCodes != "" {
		q.Set("countrycodes", params.CountryCodes)
	}
	if c.email != "" {
		q.Set("email", c.email)
	}

	body, err := c.get(ctx, "/search", q)
	if err != nil {
		return nil, err
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, eris.Wrap(err, "nominatim: search parse response")
	}

	return places, nil
}

// get issues a GET against the given endpoint and returns the response body.
func (c *client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: build request %s", path)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: request %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "nominatim: read response %s", path)
	}

	return body, nil
}
