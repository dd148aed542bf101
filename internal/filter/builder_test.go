package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func circleFilter(radius float64) QueryFilter {
	return QueryFilter{
		Location: Location{
			Circle: &Circle{
				Center:       LatLng{Latitude: 39.78, Longitude: -89.65},
				RadiusMeters: radius,
			},
		},
	}
}

func TestBuild_UserListWinsOverPreset(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}

	// food-service preset includes restaurant, bar, etc. — the user list
	// must replace it outright, never be concatenated with it.
	out, err := Build(user, "food-service")
	require.NoError(t, err)
	assert.Equal(t, []string{"cafe"}, out.Types.IncludedTypes)
	assert.NotContains(t, out.Types.IncludedTypes, "restaurant")
}

func TestBuild_PresetFillsEmptyLists(t *testing.T) {
	out, err := Build(circleFilter(1000), "food-service")
	require.NoError(t, err)
	assert.Contains(t, out.Types.IncludedTypes, "restaurant")
	assert.Contains(t, out.Types.ExcludedTypes, "gas_station")
}

func TestBuild_UnknownIndustryKeepsUserFilter(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}

	out, err := Build(user, "submarine-manufacturing")
	require.NoError(t, err)
	assert.Equal(t, []string{"cafe"}, out.Types.IncludedTypes)
	assert.Empty(t, out.Types.ExcludedTypes)
}

func TestBuild_OnlyExclusionsRejected(t *testing.T) {
	user := circleFilter(1000)
	user.Types.ExcludedTypes = []string{"gas_station"}

	_, err := Build(user, "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "types", valErr.Field)
}

func TestBuild_DefaultOperatingStatus(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}

	out, err := Build(user, "")
	require.NoError(t, err)
	assert.Equal(t, []string{OperatingStatusOperational}, out.OperatingStatus)
}

func TestBuild_ExplicitOperatingStatusKept(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}
	user.OperatingStatus = []string{"OPERATING_STATUS_TEMPORARILY_CLOSED"}

	out, err := Build(user, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"OPERATING_STATUS_TEMPORARILY_CLOSED"}, out.OperatingStatus)
}

func TestBuild_RadiusBounds(t *testing.T) {
	for _, radius := range []float64{0, 0.5, 50001} {
		user := circleFilter(radius)
		user.Types.IncludedTypes = []string{"cafe"}

		_, err := Build(user, "")
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "radius %v", radius)
	}

	for _, radius := range []float64{1, 50, 50000} {
		user := circleFilter(radius)
		user.Types.IncludedTypes = []string{"cafe"}

		_, err := Build(user, "")
		assert.NoError(t, err, "radius %v", radius)
	}
}

func TestBuild_LocationVariants(t *testing.T) {
	// No variant.
	user := QueryFilter{Types: TypeFilter{IncludedTypes: []string{"cafe"}}}
	_, err := Build(user, "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	// Two variants.
	user = circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}
	user.Location.Region = "places/ChIJ-somewhere"
	_, err = Build(user, "")
	require.ErrorAs(t, err, &valErr)

	// Region alone is fine.
	user = QueryFilter{
		Location: Location{Region: "places/ChIJ-somewhere"},
		Types:    TypeFilter{IncludedTypes: []string{"cafe"}},
	}
	_, err = Build(user, "")
	assert.NoError(t, err)
}

func TestBuild_PolygonValidation(t *testing.T) {
	closed := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{-89.7, 39.7}, {-89.6, 39.7}, {-89.6, 39.8}, {-89.7, 39.7},
	}})
	user := QueryFilter{
		Location: Location{CustomArea: closed},
		Types:    TypeFilter{IncludedTypes: []string{"cafe"}},
	}
	_, err := Build(user, "")
	assert.NoError(t, err)

	open := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{-89.7, 39.7}, {-89.6, 39.7}, {-89.6, 39.8}, {-89.5, 39.9},
	}})
	user.Location.CustomArea = open
	_, err = Build(user, "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "location.custom_area", valErr.Field)
}

func TestBuild_RatingRange(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe"}
	user.Rating = &RatingRange{Min: 4.0, Max: 5.0}

	_, err := Build(user, "")
	require.NoError(t, err)

	user.Rating = &RatingRange{Min: 4.5, Max: 3.0}
	_, err = Build(user, "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "rating", valErr.Field)
}

func TestBuild_DoesNotAliasUserSlices(t *testing.T) {
	user := circleFilter(1000)
	user.Types.IncludedTypes = []string{"cafe", "bakery"}

	out, err := Build(user, "")
	require.NoError(t, err)

	out.Types.IncludedTypes[0] = "mutated"
	assert.Equal(t, "cafe", user.Types.IncludedTypes[0])
}
