package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmfraser/waypost/internal/geo"
)

const geocodeBody = `{
  "status": "OK",
  "results": [
    {
      "types": ["locality", "political"],
      "formatted_address": "Bangkok, Thailand",
      "address_components": [
        {"long_name": "Bangkok", "short_name": "Bangkok", "types": ["locality", "political"]}
      ]
    },
    {
      "types": ["country", "political"],
      "formatted_address": "Thailand",
      "address_components": [
        {"long_name": "Thailand", "short_name": "TH", "types": ["country", "political"]}
      ]
    }
  ]
}`

func TestGeocodeClient_ReverseGeocode_OK(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latlng": r.URL.Query().Get("latlng"),
			"key":    r.URL.Query().Get("key"),
		}
		_, _ = w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(srv.Close)
	c := geo.NewGeocodeClient(srv.Client(), "test-key", srv.URL)

	results, err := c.ReverseGeocode(context.Background(), 13.7791, 100.5197)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "13.779100,100.519700", gotQuery["latlng"])
	assert.Equal(t, "test-key", gotQuery["key"])

	// Upstream ordering is preserved: finest first, coarsest last.
	assert.True(t, results[0].HasType("locality"))
	assert.True(t, results[1].HasType("country"))
	assert.Equal(t, "Thailand", results[1].FormattedAddress)
	require.NotEmpty(t, results[0].AddressComponents)
	assert.Equal(t, "Bangkok", results[0].AddressComponents[0].LongName)
}

func TestGeocodeClient_ReverseGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	t.Cleanup(srv.Close)
	c := geo.NewGeocodeClient(srv.Client(), "test-key", srv.URL)

	results, err := c.ReverseGeocode(context.Background(), 0.0001, -150)

	// An empty list is the caller's problem, not a transport failure.
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGeocodeClient_ReverseGeocode_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OVER_QUERY_LIMIT","results":[]}`))
	}))
	t.Cleanup(srv.Close)
	c := geo.NewGeocodeClient(srv.Client(), "test-key", srv.URL)

	_, err := c.ReverseGeocode(context.Background(), 13.7791, 100.5197)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OVER_QUERY_LIMIT")
}

func TestResult_HasType(t *testing.T) {
	r := geo.Result{Types: []string{"locality", "political"}}

	assert.True(t, r.HasType("locality"))
	assert.False(t, r.HasType("country"))
}
