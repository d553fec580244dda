// Package geo wraps the two Google Maps web services the check-in pipeline
// depends on: timezone-by-coordinate and reverse geocoding. Each client is a
// thin boundary object holding an API key and an injected *http.Client; the
// caller owns the timeout policy. Upstream failures surface as a single
// wrapped error so transport details never leak into the service layer.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const defaultTimezoneURL = "https://maps.googleapis.com/maps/api/timezone/json"

// TimezoneClient resolves an IANA timezone id for a coordinate at a given
// instant via the Google Time Zone API.
type TimezoneClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// timezoneResponse is the subset of the Time Zone API payload we read.
type timezoneResponse struct {
	Status     string `json:"status"`
	TimeZoneID string `json:"timeZoneId"`
}

// NewTimezoneClient constructs a TimezoneClient. Pass a client with an
// explicit Timeout; baseURL overrides the Google endpoint (tests point it at
// an httptest server), empty means production.
func NewTimezoneClient(client *http.Client, apiKey, baseURL string) *TimezoneClient {
	if baseURL == "" {
		baseURL = defaultTimezoneURL
	}
	return &TimezoneClient{client: client, apiKey: apiKey, baseURL: baseURL}
}

// Resolve returns the IANA timezone id for the coordinate at unixSeconds.
// A ZERO_RESULTS answer is not an error: it returns ("", nil) and the caller
// decides the fallback. Every other non-OK status or transport failure is an
// error.
func (c *TimezoneClient) Resolve(ctx context.Context, lat, lon float64, unixSeconds int64) (string, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("timestamp", strconv.FormatInt(unixSeconds, 10))
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("geo.TimezoneClient.Resolve: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo.TimezoneClient.Resolve: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo.TimezoneClient.Resolve: unexpected status %d", resp.StatusCode)
	}

	var body timezoneResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("geo.TimezoneClient.Resolve: decode: %w", err)
	}

	switch body.Status {
	case "OK":
		return body.TimeZoneID, nil
	case "ZERO_RESULTS":
		// Open ocean and similar — no timezone defined for the point.
		return "", nil
	default:
		return "", fmt.Errorf("geo.TimezoneClient.Resolve: timezone lookup failed: %s", body.Status)
	}
}
