package insights

import (
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/density-cli/internal/density"
	"github.com/sells-group/density-cli/internal/filter"
)

// Analysis is the final result surface returned to callers: the
// normalized query result, the classification (absent when the count was
// unknown), and metadata describing what was actually queried after any
// radius degradation.
type Analysis struct {
	ID             string          `json:"id"`
	Count          *int64          `json:"count"`
	PlaceIDs       []string        `json:"place_ids"`
	Classification *density.Result `json:"classification,omitempty"`

	Intent   density.Intent `json:"analysis_intent"`
	Industry string         `json:"industry,omitempty"`

	EffectiveRadiusMeters float64            `json:"effective_radius_meters"`
	EffectiveFilter       filter.QueryFilter `json:"effective_filter"`
	Attempts              int                `json:"attempts"`
	Timestamp             time.Time          `json:"timestamp"`
}

// Assemble composes the final analysis. Pure composition apart from the
// generated ID and timestamp; the filter and radius recorded are the ones
// actually used on the final attempt, so callers can observe degradation.
func Assemble(qr *QueryResult, cls *density.Result, meta ExecutionMeta, intent density.Intent, industry string) *Analysis {
	return &Analysis{
		ID:                    uuid.NewString(),
		Count:                 qr.Count,
		PlaceIDs:              qr.PlaceIDs,
		Classification:        cls,
		Intent:                intent,
		Industry:              industry,
		EffectiveRadiusMeters: meta.EffectiveRadius,
		EffectiveFilter:       meta.EffectiveFilter,
		Attempts:              meta.Attempts,
		Timestamp:             time.Now().UTC(),
	}
}
