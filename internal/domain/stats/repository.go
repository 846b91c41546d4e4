package stats

import (
	"context"
	"time"
)

// Repository defines data access for the tool invocation journal (ClickHouse)
type Repository interface {
	InsertInvocation(ctx context.Context, inv *ToolInvocation) error
	InsertInvocationBatch(ctx context.Context, invocations []ToolInvocation) error

	// GetOutcomes aggregates invocations since the given time, optionally for one tool
	GetOutcomes(ctx context.Context, toolName string, since time.Time) ([]ToolOutcomeAggregated, error)
}
