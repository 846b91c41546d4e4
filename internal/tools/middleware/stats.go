package middleware

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/stats"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/logger"
)

const maxErrorMessage = 1024

// JournalSink buffers invocation rows; satisfied by the ClickHouse batch writer
type JournalSink interface {
	Add(ctx context.Context, row stats.ToolInvocation) error
}

// StatsMiddleware appends one journal row per tool call.
type StatsMiddleware struct {
	sink    JournalSink
	signer  string
	chainID int64
	log     *logger.Logger
}

// NewStatsMiddleware constructs a middleware writing to sink
func NewStatsMiddleware(sink JournalSink, signer string, chainID int64, log *logger.Logger) *StatsMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &StatsMiddleware{sink: sink, signer: signer, chainID: chainID, log: log}
}

// Wrap adds journaling around a tool. A nil sink leaves the tool unchanged.
func (m *StatsMiddleware) Wrap(t tools.Tool) tools.Tool {
	if m == nil || m.sink == nil {
		return t
	}

	return tools.New(t.Definition(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := t.Execute(ctx, req)
		duration := time.Since(start)

		id := uuid.New()
		if meta, ok := shared.MetadataFromContext(ctx); ok {
			id = meta.ID
		}

		row := stats.ToolInvocation{
			InvocationID: id,
			ToolName:     t.Name(),
			Outcome:      string(shared.Classify(result, err)),
			Timestamp:    start.UTC(),
			DurationMs:   uint32(duration.Milliseconds()),
			Signer:       m.signer,
			ChainID:      m.chainID,
			ErrorMessage: errorMessage(result, err),
		}

		// journal failures never change the reply
		if addErr := m.sink.Add(context.WithoutCancel(ctx), row); addErr != nil {
			m.log.Warnw("Failed to journal tool invocation", "tool", t.Name(), "error", addErr)
		}

		return result, err
	})
}

func errorMessage(result *mcp.CallToolResult, err error) string {
	var msg string
	switch {
	case err != nil:
		msg = err.Error()
	case result != nil && result.StructuredContent == nil:
		msg = shared.TextOf(result)
	}
	return truncateUTF8(msg, maxErrorMessage)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
