package insights

import (
	"context"
	"errors"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/pkg/areainsights"
)

// radiusShrinkFactor is applied to the search radius on each retryable
// capacity rejection. Geometric shrink converges in a handful of steps
// against an unknown but monotonic count-vs-radius curve, while keeping
// the worst case bounded to the attempt budget.
const radiusShrinkFactor = 0.25

// ExecutorConfig controls the adaptive retry loop.
type ExecutorConfig struct {
	// MaxAttempts is the total number of queries sent (including the
	// first). Default: 3.
	MaxAttempts int

	// RadiusFloorMeters is the smallest radius degradation will reach.
	// Shrinking below it clamps to the floor and triggers the one-time
	// type-filter repair. Default: 50.
	RadiusFloorMeters float64
}

// DefaultExecutorConfig returns the standard retry budget.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts:       3,
		RadiusFloorMeters: 50,
	}
}

// Executor sends aggregation queries and degrades the search radius (and
// repairs the type filter) under repeated capacity rejections. It is
// stateless across invocations: each Execute call owns its own copy of
// the filter and its own retry state, so concurrent calls need no
// locking.
type Executor struct {
	client areainsights.Client
	cfg    ExecutorConfig
}

// NewExecutor creates an Executor. Zero config fields fall back to the
// defaults.
func NewExecutor(client areainsights.Client, cfg ExecutorConfig) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RadiusFloorMeters <= 0 {
		cfg.RadiusFloorMeters = 50
	}
	return &Executor{client: client, cfg: cfg}
}

// retryState is the per-invocation loop state, threaded through each
// iteration as a value. attempt is 0-based; repaired records whether the
// one-time type-filter repair has been applied.
type retryState struct {
	attempt  int
	radius   float64
	flt      filter.QueryFilter
	repaired bool
}

// ExecutionMeta reports what the successful (or final) attempt actually
// sent: the effective filter and radius after any degradation.
type ExecutionMeta struct {
	Attempts        int
	EffectiveRadius float64
	EffectiveFilter filter.QueryFilter
}

// Execute runs one adaptive query. On a capacity rejection it shrinks the
// radius by radiusShrinkFactor (clamping at the floor, which also
// triggers filter repair) and retries; any other failure aborts
// immediately. Exhausting the attempt budget returns a
// *RetryExhaustedError carrying the last filter and radius tried.
func (e *Executor) Execute(ctx context.Context, qf filter.QueryFilter, kinds []areainsights.Insight) (*QueryResult, ExecutionMeta, error) {
	log := zap.L().With(zap.String("component", "insights.executor"))

	st := retryState{flt: qf.Clone()}
	if c := st.flt.Location.Circle; c != nil {
		st.radius = c.RadiusMeters
	}

	for {
		meta := ExecutionMeta{
			Attempts:        st.attempt + 1,
			EffectiveRadius: st.radius,
			EffectiveFilter: st.flt,
		}

		resp, err := e.client.ComputeInsights(ctx, &areainsights.ComputeRequest{
			Insights: kinds,
			Filter:   wireFilter(st.flt),
		})
		if err == nil {
			return ParseResponse(resp), meta, nil
		}

		// An external deadline aborts the current attempt outright; it
		// must never roll into a further retry.
		if ctx.Err() != nil {
			return nil, meta, eris.Wrap(ctx.Err(), "insights: query canceled")
		}

		var capErr *areainsights.CapacityError
		if !errors.As(err, &capErr) {
			return nil, meta, eris.Wrap(err, "insights: query failed")
		}

		log.Warn("place cap exceeded",
			zap.Int("attempt", st.attempt),
			zap.Float64("radius_m", st.radius),
		)

		if st.attempt+1 >= e.cfg.MaxAttempts {
			return nil, meta, &RetryExhaustedError{
				Attempts:   e.cfg.MaxAttempts,
				LastRadius: st.radius,
				LastFilter: st.flt,
			}
		}

		st = e.nextState(st)
	}
}

// nextState computes the state for the following attempt after a
// capacity rejection. For circular areas the radius shrinks by
// radiusShrinkFactor; dropping under the floor clamps to the floor and
// additionally applies the one-time type-filter repair (the two are not
// mutually exclusive). Non-circular areas have no radius to degrade, so
// repair is the only lever.
func (e *Executor) nextState(st retryState) retryState {
	next := st
	next.attempt = st.attempt + 1
	next.flt = st.flt.Clone()

	repair := false
	if next.flt.Location.Circle != nil {
		newRadius := math.Floor(st.radius * radiusShrinkFactor)
		if newRadius < e.cfg.RadiusFloorMeters {
			newRadius = e.cfg.RadiusFloorMeters
			repair = true
		}
		next.radius = newRadius
		next.flt.Location.Circle.RadiusMeters = newRadius
	} else {
		repair = true
	}

	if repair && !next.repaired {
		next.flt.Types = filter.RepairTypes(next.flt.Types)
		next.repaired = true
	}
	return next
}

// wireFilter converts the internal filter into the API request shape.
func wireFilter(qf filter.QueryFilter) areainsights.Filter {
	out := areainsights.Filter{
		TypeFilter: areainsights.TypeFilter{
			IncludedTypes:        qf.Types.IncludedTypes,
			ExcludedTypes:        qf.Types.ExcludedTypes,
			IncludedPrimaryTypes: qf.Types.IncludedPrimaryTypes,
			ExcludedPrimaryTypes: qf.Types.ExcludedPrimaryTypes,
		},
		OperatingStatus: qf.OperatingStatus,
		PriceLevels:     qf.PriceLevels,
	}

	if qf.Rating != nil {
		out.RatingFilter = &areainsights.RatingFilter{
			MinRating: qf.Rating.Min,
			MaxRating: qf.Rating.Max,
		}
	}

	switch {
	case qf.Location.Circle != nil:
		c := qf.Location.Circle
		out.LocationFilter.Circle = &areainsights.Circle{
			LatLng: &areainsights.LatLng{
				Latitude:  c.Center.Latitude,
				Longitude: c.Center.Longitude,
			},
			Radius: int(math.Round(c.RadiusMeters)),
		}
	case qf.Location.Region != "":
		out.LocationFilter.Region = &areainsights.Region{Place: qf.Location.Region}
	case qf.Location.CustomArea != nil:
		ring := qf.Location.CustomArea.LinearRing(0)
		coords := make([]areainsights.LatLng, 0, ring.NumCoords())
		for i := 0; i < ring.NumCoords(); i++ {
			c := ring.Coord(i)
			coords = append(coords, areainsights.LatLng{Latitude: c[1], Longitude: c[0]})
		}
		out.LocationFilter.CustomArea = &areainsights.CustomArea{
			Polygon: areainsights.Polygon{Coordinates: coords},
		}
	}

	return out
}
