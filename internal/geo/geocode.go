package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Result is one entry of a reverse-geocoding response, ordered by the
// upstream service from finest to coarsest grain (the last entry is
// country-level). The classification policy — which entry becomes country,
// city, or area — lives in the service layer; the client only transports.
type Result struct {
	Types             []string           `json:"types"`
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// AddressComponent is one named part of a geocoding result.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// HasType reports whether the result carries the given classification tag
// (e.g. "country", "locality", "administrative_area_level_1").
func (r Result) HasType(t string) bool {
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}

// GeocodeClient performs reverse-geocoding lookups via the Google Geocoding
// API.
type GeocodeClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// geocodeResponse is the subset of the Geocoding API payload we read.
type geocodeResponse struct {
	Status  string   `json:"status"`
	Results []Result `json:"results"`
}

// NewGeocodeClient constructs a GeocodeClient. Pass a client with an explicit
// Timeout; baseURL overrides the Google endpoint for tests, empty means
// production.
func NewGeocodeClient(client *http.Client, apiKey, baseURL string) *GeocodeClient {
	if baseURL == "" {
		baseURL = defaultGeocodeURL
	}
	return &GeocodeClient{client: client, apiKey: apiKey, baseURL: baseURL}
}

// ReverseGeocode returns the ordered result list for a coordinate. An empty
// list (ZERO_RESULTS) is returned as-is; the caller enforces its own minimum.
func (c *GeocodeClient) ReverseGeocode(ctx context.Context, lat, lon float64) ([]Result, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geo.GeocodeClient.ReverseGeocode: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo.GeocodeClient.ReverseGeocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo.GeocodeClient.ReverseGeocode: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geo.GeocodeClient.ReverseGeocode: decode: %w", err)
	}

	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geo.GeocodeClient.ReverseGeocode: geocode lookup failed: %s", body.Status)
	}

	return body.Results, nil
}
