package stats

import (
	"time"

	"github.com/google/uuid"
)

// ToolInvocation is one journal row per tool call (for insertion)
type ToolInvocation struct {
	InvocationID uuid.UUID `ch:"invocation_id"`
	ToolName     string    `ch:"tool_name"`
	Outcome      string    `ch:"outcome"` // success|in_band_error|rejected|failed
	Timestamp    time.Time `ch:"timestamp"`

	DurationMs uint32 `ch:"duration_ms"`
	Signer     string `ch:"signer"`
	ChainID    int64  `ch:"chain_id"`

	// ErrorMessage is empty on success
	ErrorMessage string `ch:"error_message"`
}

// ToolOutcomeAggregated is the per tool and outcome rollup over a window
type ToolOutcomeAggregated struct {
	ToolName      string  `ch:"tool_name"`
	Outcome       string  `ch:"outcome"`
	CallCount     uint64  `ch:"call_count"`
	AvgDurationMs float64 `ch:"avg_duration_ms"`
}
