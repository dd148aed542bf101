package store

import (
	"context"
	"time"

	"github.com/sells-group/density-cli/internal/insights"
)

// Status of a recorded analysis.
type Status string

const (
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Record is one logged analysis invocation. It is an audit log entry,
// not a cache: stored results are never reused to answer later queries.
type Record struct {
	ID        string             `json:"id"`
	Industry  string             `json:"industry,omitempty"`
	Intent    string             `json:"intent"`
	Status    Status             `json:"status"`
	Request   insights.Request   `json:"request"`
	Analysis  *insights.Analysis `json:"analysis,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// ListFilter narrows ListRecords output.
type ListFilter struct {
	Status   Status
	Industry string
	Limit    int
}

// Store persists analysis history.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRecord(ctx context.Context, rec *Record) error
	GetRecord(ctx context.Context, id string) (*Record, error)
	ListRecords(ctx context.Context, filter ListFilter) ([]Record, error)
	Close() error
}
