package insights

import (
	"fmt"

	"github.com/sells-group/density-cli/internal/filter"
)

// ConfigurationError reports a missing required setting. It is raised
// before any network attempt.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("insights: required setting %s is not configured", e.Setting)
}

// RetryExhaustedError reports that every attempt hit the service's place
// cap. It carries the filter and radius of the final attempt so callers
// can observe how far degradation got.
type RetryExhaustedError struct {
	Attempts   int
	LastRadius float64
	LastFilter filter.QueryFilter
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("insights: place cap still exceeded after %d attempts (final radius %.0fm)", e.Attempts, e.LastRadius)
}
