package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/density-cli/internal/density"
	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/pkg/areainsights"
)

func testRequestFor(radius float64) Request {
	return Request{
		Filter: filter.QueryFilter{
			Location: filter.Location{
				Circle: &filter.Circle{
					Center:       filter.LatLng{Latitude: 39.78, Longitude: -89.65},
					RadiusMeters: radius,
				},
			},
		},
		Industry: "food-service",
	}
}

func TestAnalyze_FullFlow(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{
		{resp: &areainsights.ComputeResponse{
			Count: []byte(`"20"`),
			PlaceInsights: []areainsights.PlaceInsight{
				{Place: "places/ChIJ-one"},
			},
		}},
	}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	req := testRequestFor(1000)
	req.IncludePlaces = true
	analysis, err := analyzer.Analyze(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, analysis.Count)
	assert.Equal(t, int64(20), *analysis.Count)
	assert.Equal(t, []string{"ChIJ-one"}, analysis.PlaceIDs)
	require.NotNil(t, analysis.Classification)
	assert.Equal(t, density.TierHigh, analysis.Classification.Tier)
	assert.Equal(t, density.IntentDensity, analysis.Intent)
	assert.Equal(t, "food-service", analysis.Industry)
	assert.InDelta(t, 1000, analysis.EffectiveRadiusMeters, 0.001)
	assert.NotEmpty(t, analysis.ID)
	assert.False(t, analysis.Timestamp.IsZero())

	// The preset filled the type filter, and both insight kinds went out.
	require.Len(t, mc.requests, 1)
	assert.Contains(t, mc.requests[0].Filter.TypeFilter.IncludedTypes, "restaurant")
	assert.Contains(t, mc.requests[0].Insights, areainsights.InsightPlaces)
}

func TestAnalyze_EffectiveRadiusReflectsDegradation(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{
		capacityResponse(),
		countResponse(`"8"`),
	}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	analysis, err := analyzer.Analyze(context.Background(), testRequestFor(10000))

	require.NoError(t, err)
	assert.InDelta(t, 2500, analysis.EffectiveRadiusMeters, 0.001)
	assert.Equal(t, 2, analysis.Attempts)
	// Classification uses the degraded radius, not the requested one.
	require.NotNil(t, analysis.Classification)
	assert.InDelta(t, 8/(3.14159265*2.5*2.5), analysis.Classification.Density, 0.01)
}

func TestAnalyze_UnknownCountSkipsClassification(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{
		{resp: &areainsights.ComputeResponse{}},
	}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	analysis, err := analyzer.Analyze(context.Background(), testRequestFor(1000))

	require.NoError(t, err)
	assert.Nil(t, analysis.Count)
	assert.Nil(t, analysis.Classification)
}

func TestAnalyze_ValidationBeforeNetwork(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{countResponse(`"1"`)}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	req := testRequestFor(0) // radius out of bounds
	_, err := analyzer.Analyze(context.Background(), req)

	var valErr *filter.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, mc.requests, "validation failures must precede any network call")
}

func TestAnalyze_BadIntentRejected(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{countResponse(`"1"`)}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	req := testRequestFor(1000)
	req.Intent = "astrology"
	_, err := analyzer.Analyze(context.Background(), req)

	require.Error(t, err)
	assert.Empty(t, mc.requests)
}

func TestAnalyzeMany_IndividualFailuresDoNotAbort(t *testing.T) {
	mc := &mockClient{responses: []mockResponse{countResponse(`"4"`)}}
	analyzer := NewAnalyzer(mc, DefaultExecutorConfig())

	reqs := []Request{
		testRequestFor(1000),
		testRequestFor(0), // invalid
		testRequestFor(2000),
	}
	items := analyzer.AnalyzeMany(context.Background(), reqs, 1)

	require.Len(t, items, 3)
	assert.NoError(t, items[0].Err)
	assert.NotNil(t, items[0].Analysis)
	assert.Error(t, items[1].Err)
	assert.Nil(t, items[1].Analysis)
	assert.NoError(t, items[2].Err)
	assert.NotNil(t, items[2].Analysis)
}
