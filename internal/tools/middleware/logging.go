package middleware

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
	"zoracoin/pkg/logger"
)

// InvocationMiddleware starts invocation metadata for every call, logs the
// outcome and reports failures to the error tracker. Mount it outermost.
type InvocationMiddleware struct {
	log     *logger.Logger
	tracker errors.Tracker
}

// NewInvocationMiddleware creates the middleware; tracker may be nil
func NewInvocationMiddleware(log *logger.Logger, tracker errors.Tracker) *InvocationMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &InvocationMiddleware{log: log, tracker: tracker}
}

// Wrap implements tools.Middleware
func (m *InvocationMiddleware) Wrap(t tools.Tool) tools.Tool {
	return tools.New(t.Definition(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		meta, ok := shared.MetadataFromContext(ctx)
		if !ok {
			meta = shared.NewInvocation(t.Name())
			ctx = shared.WithInvocationMetadata(ctx, meta)
		}
		log := m.log.ForInvocation(ctx).With("tool", t.Name())

		if m.tracker != nil {
			m.tracker.AddBreadcrumb(ctx, "tool call", "tool", errors.LevelInfo, map[string]interface{}{
				"tool":          t.Name(),
				"invocation_id": meta.ID.String(),
			})
		}
		log.Debugw("Tool call started")

		result, err := t.Execute(ctx, req)
		outcome := shared.Classify(result, err)
		duration := time.Since(meta.StartedAt)

		switch outcome {
		case shared.OutcomeSuccess:
			log.Debugw("Tool call finished", "outcome", outcome, "duration", duration)
		case shared.OutcomeRejected:
			log.Warnw("Tool call rejected", "outcome", outcome, "duration", duration, "error", err)
		case shared.OutcomeInBandError:
			log.Warnw("Tool call failed in band", "outcome", outcome, "duration", duration, "reply", shared.TextOf(result))
			m.capture(ctx, t.Name(), outcome, errors.New(shared.TextOf(result)))
		default:
			log.Errorw("Tool call failed", "outcome", outcome, "duration", duration, "error", err)
			m.capture(ctx, t.Name(), outcome, err)
		}

		return result, err
	})
}

func (m *InvocationMiddleware) capture(ctx context.Context, tool string, outcome shared.Outcome, err error) {
	if m.tracker == nil || err == nil {
		return
	}
	_ = m.tracker.CaptureError(ctx, err, map[string]string{
		"tool":    tool,
		"outcome": string(outcome),
	})
}
