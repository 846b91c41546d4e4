package middleware

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/metrics"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
)

// MetricsMiddleware records executions by outcome and latency per tool
type MetricsMiddleware struct{}

// NewMetricsMiddleware constructs the middleware
func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Wrap implements tools.Middleware
func (m *MetricsMiddleware) Wrap(t tools.Tool) tools.Tool {
	return tools.New(t.Definition(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := t.Execute(ctx, req)
		metrics.RecordToolExecution(t.Name(), string(shared.Classify(result, err)), time.Since(start))
		return result, err
	})
}
