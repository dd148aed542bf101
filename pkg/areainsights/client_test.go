package areainsights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *ComputeRequest {
	return &ComputeRequest{
		Insights: []Insight{InsightCount},
		Filter: Filter{
			LocationFilter: LocationFilter{
				Circle: &Circle{
					LatLng: &LatLng{Latitude: 39.78, Longitude: -89.65},
					Radius: 1000,
				},
			},
			TypeFilter: TypeFilter{IncludedTypes: []string{"cafe"}},
		},
	}
}

func TestComputeInsights_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1:computeInsights", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))

		var body ComputeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Filter.LocationFilter.Circle)
		assert.Equal(t, 1000, body.Filter.LocationFilter.Circle.Radius)
		assert.Equal(t, []string{"cafe"}, body.Filter.TypeFilter.IncludedTypes)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": "42", "placeInsights": [{"place": "places/ChIJ-abc"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.ComputeInsights(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(resp.Count))
	require.Len(t, resp.PlaceInsights, 1)
	assert.Equal(t, "places/ChIJ-abc", resp.PlaceInsights[0].Place)
}

func TestComputeInsights_CapacityExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "the place count is above the limit for this query"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.ComputeInsights(context.Background(), testRequest())

	assert.Nil(t, resp)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, http.StatusTooManyRequests, capErr.StatusCode)
}

func TestComputeInsights_PlainRateLimit_NotCapacity(t *testing.T) {
	// Same status code but without the cap phrase: must not look retryable
	// as a capacity rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ComputeInsights(context.Background(), testRequest())

	var capErr *CapacityError
	assert.False(t, errors.As(err, &capErr))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestComputeInsights_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.ComputeInsights(context.Background(), testRequest())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestComputeInsights_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.ComputeInsights(ctx, testRequest())

	assert.Error(t, err)
	assert.Nil(t, resp)
}
