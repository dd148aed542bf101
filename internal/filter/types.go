package filter

import (
	"fmt"
)

// Radius bounds accepted by the aggregation service, in meters.
const (
	MinRadiusMeters = 1
	MaxRadiusMeters = 50000
)

// OperatingStatusOperational is the default operating-status restriction:
// only places that are currently open for business are counted.
const OperatingStatusOperational = "OPERATING_STATUS_OPERATIONAL"

// ValidationError reports a malformed filter. It is raised before any
// network call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter: invalid %s: %s", e.Field, e.Reason)
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Circle is a center point plus a search radius in meters.
type Circle struct {
	Center       LatLng  `json:"center"`
	RadiusMeters float64 `json:"radius_meters"`
}

// RatingRange restricts aggregation to places whose user rating falls
// within [Min, Max] on the 1.0–5.0 scale.
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TypeFilter restricts aggregation by place type tags. At least one of
// the two inclusion lists must be non-empty; a filter carrying only
// exclusions is rejected by validation.
type TypeFilter struct {
	IncludedTypes        []string `json:"included_types,omitempty" yaml:"included_types"`
	ExcludedTypes        []string `json:"excluded_types,omitempty" yaml:"excluded_types"`
	IncludedPrimaryTypes []string `json:"included_primary_types,omitempty" yaml:"included_primary_types"`
	ExcludedPrimaryTypes []string `json:"excluded_primary_types,omitempty" yaml:"excluded_primary_types"`
}

// Empty reports whether no field of the type filter is set.
func (t TypeFilter) Empty() bool {
	return len(t.IncludedTypes) == 0 &&
		len(t.ExcludedTypes) == 0 &&
		len(t.IncludedPrimaryTypes) == 0 &&
		len(t.ExcludedPrimaryTypes) == 0
}

// Validate checks the inclusion invariant.
func (t TypeFilter) Validate() error {
	if len(t.IncludedTypes) == 0 && len(t.IncludedPrimaryTypes) == 0 {
		return &ValidationError{Field: "types", Reason: "at least one included type or included primary type is required"}
	}
	return nil
}

func (t TypeFilter) clone() TypeFilter {
	return TypeFilter{
		IncludedTypes:        append([]string(nil), t.IncludedTypes...),
		ExcludedTypes:        append([]string(nil), t.ExcludedTypes...),
		IncludedPrimaryTypes: append([]string(nil), t.IncludedPrimaryTypes...),
		ExcludedPrimaryTypes: append([]string(nil), t.ExcludedPrimaryTypes...),
	}
}

// QueryFilter is the effective filter sent with one aggregation query.
type QueryFilter struct {
	Location        Location     `json:"location"`
	Types           TypeFilter   `json:"types"`
	OperatingStatus []string     `json:"operating_status,omitempty"`
	PriceLevels     []string     `json:"price_levels,omitempty"`
	Rating          *RatingRange `json:"rating,omitempty"`
}

// Clone returns a deep copy the caller may mutate without affecting the
// original. The polygon of a custom area is shared: it is treated as
// immutable once built.
func (q QueryFilter) Clone() QueryFilter {
	out := q
	out.Types = q.Types.clone()
	out.OperatingStatus = append([]string(nil), q.OperatingStatus...)
	out.PriceLevels = append([]string(nil), q.PriceLevels...)
	if q.Rating != nil {
		r := *q.Rating
		out.Rating = &r
	}
	if q.Location.Circle != nil {
		c := *q.Location.Circle
		out.Location.Circle = &c
	}
	return out
}

// Validate checks the full filter invariant set: exactly one location
// variant, radius bounds, type inclusions, and rating range sanity.
func (q QueryFilter) Validate() error {
	if err := q.Location.Validate(); err != nil {
		return err
	}
	if err := q.Types.Validate(); err != nil {
		return err
	}
	if q.Rating != nil {
		if q.Rating.Min < 1 || q.Rating.Max > 5 || q.Rating.Min > q.Rating.Max {
			return &ValidationError{Field: "rating", Reason: fmt.Sprintf("range [%.1f, %.1f] must satisfy 1.0 <= min <= max <= 5.0", q.Rating.Min, q.Rating.Max)}
		}
	}
	return nil
}
