package insights

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchItem pairs a request with its outcome. Exactly one of Analysis
// and Err is set.
type BatchItem struct {
	Request  Request   `json:"request"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Err      error     `json:"-"`
}

// AnalyzeMany runs the given requests concurrently with at most limit in
// flight. Individual failures are recorded on their item and do not
// abort the rest of the batch; only context cancellation stops early.
func (a *Analyzer) AnalyzeMany(ctx context.Context, reqs []Request, limit int) []BatchItem {
	if limit <= 0 {
		limit = 4
	}

	items := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, req := range reqs {
		items[i].Request = req
		g.Go(func() error {
			if gctx.Err() != nil {
				items[i].Err = gctx.Err()
				return nil
			}
			analysis, err := a.Analyze(gctx, req)
			if err != nil {
				zap.L().Warn("batch item failed", zap.Int("index", i), zap.Error(err))
				items[i].Err = err
				return nil
			}
			items[i].Analysis = analysis
			return nil
		})
	}

	_ = g.Wait()
	return items
}
