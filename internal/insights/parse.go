package insights

import (
	"bytes"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/density-cli/pkg/areainsights"
)

// QueryResult is the normalized outcome of one aggregation query. A nil
// Count means the service omitted it (classification is then skipped);
// PlaceIDs is always non-nil, possibly empty.
type QueryResult struct {
	Count    *int64   `json:"count"`
	PlaceIDs []string `json:"place_ids"`
}

// ParseResponse normalizes the raw service response. Parsing degrades
// gracefully: a malformed count becomes "unknown" rather than an error,
// and place entries missing their identifier are dropped, not fatal. A
// garbled upstream value is never turned into a fabricated count.
func ParseResponse(resp *areainsights.ComputeResponse) *QueryResult {
	out := &QueryResult{PlaceIDs: []string{}}
	if resp == nil {
		return out
	}

	if len(resp.Count) > 0 {
		if n, ok := decodeCount(resp.Count); ok {
			out.Count = &n
		} else {
			zap.L().Warn("discarding malformed count field",
				zap.String("raw", string(resp.Count)),
			)
		}
	}

	dropped := 0
	for _, pi := range resp.PlaceInsights {
		id := placeID(pi.Place)
		if id == "" {
			dropped++
			continue
		}
		out.PlaceIDs = append(out.PlaceIDs, id)
	}
	if dropped > 0 {
		zap.L().Warn("dropped place entries missing identifiers", zap.Int("count", dropped))
	}

	return out
}

// decodeCount accepts the int64-as-quoted-string encoding the API uses
// as well as a bare JSON number. Negative or non-integer values are
// rejected.
func decodeCount(raw []byte) (int64, bool) {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// placeID strips the "places/" resource prefix from a place reference.
func placeID(resource string) string {
	return strings.TrimPrefix(strings.TrimSpace(resource), "places/")
}
