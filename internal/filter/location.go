package filter

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Location bounds the search area. Exactly one variant is populated:
// a circle, a named region (place resource name), or a custom polygon.
type Location struct {
	Circle     *Circle
	Region     string
	CustomArea *geom.Polygon
}

// Validate enforces the one-variant invariant and per-variant bounds.
func (l Location) Validate() error {
	variants := 0
	if l.Circle != nil {
		variants++
	}
	if l.Region != "" {
		variants++
	}
	if l.CustomArea != nil {
		variants++
	}
	if variants != 1 {
		return &ValidationError{Field: "location", Reason: fmt.Sprintf("exactly one of circle, region, or custom_area must be set (got %d)", variants)}
	}

	if c := l.Circle; c != nil {
		if c.RadiusMeters < MinRadiusMeters || c.RadiusMeters > MaxRadiusMeters {
			return &ValidationError{Field: "location.circle", Reason: fmt.Sprintf("radius %.0fm outside [%d, %d]", c.RadiusMeters, MinRadiusMeters, MaxRadiusMeters)}
		}
		if c.Center.Latitude < -90 || c.Center.Latitude > 90 || c.Center.Longitude < -180 || c.Center.Longitude > 180 {
			return &ValidationError{Field: "location.circle", Reason: "center coordinate out of range"}
		}
	}

	if p := l.CustomArea; p != nil {
		if p.NumLinearRings() == 0 {
			return &ValidationError{Field: "location.custom_area", Reason: "polygon has no rings"}
		}
		ring := p.LinearRing(0)
		n := ring.NumCoords()
		if n < 4 {
			return &ValidationError{Field: "location.custom_area", Reason: "outer ring needs at least 4 coordinates"}
		}
		first, last := ring.Coord(0), ring.Coord(n-1)
		if first[0] != last[0] || first[1] != last[1] {
			return &ValidationError{Field: "location.custom_area", Reason: "outer ring is not closed"}
		}
	}

	return nil
}

// locationJSON is the wire shape of Location; the polygon travels as a
// GeoJSON geometry.
type locationJSON struct {
	Circle     *Circle         `json:"circle,omitempty"`
	Region     string          `json:"region,omitempty"`
	CustomArea json.RawMessage `json:"custom_area,omitempty"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	aux := locationJSON{Circle: l.Circle, Region: l.Region}
	if l.CustomArea != nil {
		raw, err := geojson.Marshal(l.CustomArea)
		if err != nil {
			return nil, eris.Wrap(err, "filter: marshal custom area")
		}
		aux.CustomArea = raw
	}
	return json.Marshal(aux)
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var aux locationJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return eris.Wrap(err, "filter: unmarshal location")
	}
	l.Circle = aux.Circle
	l.Region = aux.Region
	l.CustomArea = nil
	if len(aux.CustomArea) > 0 {
		var g geom.T
		if err := geojson.Unmarshal(aux.CustomArea, &g); err != nil {
			return eris.Wrap(err, "filter: unmarshal custom area")
		}
		poly, ok := g.(*geom.Polygon)
		if !ok {
			return &ValidationError{Field: "location.custom_area", Reason: "geometry is not a polygon"}
		}
		l.CustomArea = poly
	}
	return nil
}
