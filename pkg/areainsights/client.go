package areainsights

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://areainsights.googleapis.com"

// capacityPhrase is the fixed phrase the aggregation endpoint includes in
// its rejection body when a query would enumerate more places than the
// per-query cap allows. The status code alone is not enough: plain rate
// limiting uses the same code without this phrase.
const capacityPhrase = "place count is above the limit"

// Insight selects which aggregations the compute endpoint returns.
type Insight string

const (
	// InsightCount returns only the number of matching places.
	InsightCount Insight = "INSIGHT_COUNT"
	// InsightPlaces additionally returns the matching place references.
	InsightPlaces Insight = "INSIGHT_PLACES"
)

// Client performs Area Insights API operations.
type Client interface {
	ComputeInsights(ctx context.Context, req *ComputeRequest) (*ComputeResponse, error)
}

// ComputeRequest is the request body for v1:computeInsights.
type ComputeRequest struct {
	Insights []Insight `json:"insights"`
	Filter   Filter    `json:"filter"`
}

// Filter narrows which places are aggregated.
type Filter struct {
	LocationFilter  LocationFilter `json:"locationFilter"`
	TypeFilter      TypeFilter     `json:"typeFilter"`
	OperatingStatus []string       `json:"operatingStatus,omitempty"`
	PriceLevels     []string       `json:"priceLevels,omitempty"`
	RatingFilter    *RatingFilter  `json:"ratingFilter,omitempty"`
}

// LocationFilter bounds the search area. Exactly one field is set.
type LocationFilter struct {
	Circle     *Circle     `json:"circle,omitempty"`
	Region     *Region     `json:"region,omitempty"`
	CustomArea *CustomArea `json:"customArea,omitempty"`
}

// Circle is a center point plus radius in meters.
type Circle struct {
	LatLng *LatLng `json:"latLng,omitempty"`
	Radius int     `json:"radius"`
}

// Region references a named place resource (e.g. "places/ChIJ...").
type Region struct {
	Place string `json:"place"`
}

// CustomArea is an arbitrary polygon boundary.
type CustomArea struct {
	Polygon Polygon `json:"polygon"`
}

// Polygon is a closed ring of coordinates.
type Polygon struct {
	Coordinates []LatLng `json:"coordinates"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TypeFilter restricts aggregation by place type tags.
type TypeFilter struct {
	IncludedTypes        []string `json:"includedTypes,omitempty"`
	ExcludedTypes        []string `json:"excludedTypes,omitempty"`
	IncludedPrimaryTypes []string `json:"includedPrimaryTypes,omitempty"`
	ExcludedPrimaryTypes []string `json:"excludedPrimaryTypes,omitempty"`
}

// RatingFilter restricts aggregation to a user-rating range.
type RatingFilter struct {
	MinRating float64 `json:"minRating,omitempty"`
	MaxRating float64 `json:"maxRating,omitempty"`
}

// ComputeResponse is the response from v1:computeInsights. Count is kept
// raw because the API encodes int64 values as quoted decimal strings;
// callers decode it tolerantly.
type ComputeResponse struct {
	Count         json.RawMessage `json:"count,omitempty"`
	PlaceInsights []PlaceInsight  `json:"placeInsights,omitempty"`
}

// PlaceInsight is a single matching place reference.
type PlaceInsight struct {
	Place string `json:"place"`
}

// CapacityError reports that the query matched more places than the
// service will enumerate. It is the only retryable API outcome.
type CapacityError struct {
	StatusCode int
	Body       string
}

func (e *CapacityError) Error() string {
	return "areainsights: place cap exceeded"
}

// APIError is any other non-2xx response. Never retried.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "areainsights: unexpected status " + http.StatusText(e.StatusCode)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Area Insights API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ComputeInsights(ctx context.Context, req *ComputeRequest) (*ComputeResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "areainsights: rate limit")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "areainsights: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1:computeInsights", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "areainsights: create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "areainsights: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "areainsights: read response")
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests && strings.Contains(string(respBody), capacityPhrase) {
			return nil, &CapacityError{StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result ComputeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "areainsights: unmarshal response")
	}

	return &result, nil
}
