package insights

import (
	"context"

	"github.com/sells-group/density-cli/pkg/areainsights"
)

// mockClient implements areainsights.Client for testing. It replays a
// scripted sequence of responses and records every request it saw.
type mockClient struct {
	responses []mockResponse
	requests  []*areainsights.ComputeRequest
}

type mockResponse struct {
	resp *areainsights.ComputeResponse
	err  error
}

func (m *mockClient) ComputeInsights(_ context.Context, req *areainsights.ComputeRequest) (*areainsights.ComputeResponse, error) {
	m.requests = append(m.requests, req)
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	r := m.responses[i]
	return r.resp, r.err
}

func capacityResponse() mockResponse {
	return mockResponse{err: &areainsights.CapacityError{StatusCode: 429, Body: "place count is above the limit"}}
}

func countResponse(raw string) mockResponse {
	return mockResponse{resp: &areainsights.ComputeResponse{Count: []byte(raw)}}
}
