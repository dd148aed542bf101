package insights

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/density-cli/internal/density"
	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/pkg/areainsights"
)

// Request describes one density analysis.
type Request struct {
	// Filter is the caller-supplied query filter; a known Industry tag
	// fills type defaults underneath it.
	Filter   filter.QueryFilter `json:"filter"`
	Industry string             `json:"industry,omitempty"`
	Intent   string             `json:"intent,omitempty"`

	// IncludePlaces additionally requests the matching place references,
	// not just the count.
	IncludePlaces bool `json:"include_places,omitempty"`
}

// Analyzer runs the full flow: filter build, adaptive query, parse,
// classification, assembly.
type Analyzer struct {
	exec *Executor
}

// NewAnalyzer creates an Analyzer backed by the given API client.
func NewAnalyzer(client areainsights.Client, cfg ExecutorConfig) *Analyzer {
	return &Analyzer{exec: NewExecutor(client, cfg)}
}

// Analyze executes one analysis. Validation and intent errors surface
// before any network call. Classification is skipped when the service
// omitted the count or the area was not circular (density needs a
// radius); the assembled analysis is still returned in that case.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	intent, err := density.ParseIntent(req.Intent)
	if err != nil {
		return nil, err
	}

	qf, err := filter.Build(req.Filter, req.Industry)
	if err != nil {
		return nil, err
	}

	kinds := []areainsights.Insight{areainsights.InsightCount}
	if req.IncludePlaces {
		kinds = append(kinds, areainsights.InsightPlaces)
	}

	qr, meta, err := a.exec.Execute(ctx, qf, kinds)
	if err != nil {
		return nil, err
	}

	var cls *density.Result
	switch {
	case qr.Count == nil:
		zap.L().Warn("count missing from response; skipping classification")
	case meta.EffectiveRadius <= 0:
		zap.L().Info("non-circular area; skipping density classification")
	default:
		c := density.Classify(*qr.Count, meta.EffectiveRadius, intent, density.Context{Industry: req.Industry})
		cls = &c
	}

	return Assemble(qr, cls, meta, intent, req.Industry), nil
}
