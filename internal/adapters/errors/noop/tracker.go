package noop

import (
	"context"

	"zoracoin/pkg/errors"
	"zoracoin/pkg/logger"
)

// Tracker stands in for Sentry when SENTRY_DSN is empty.
// Captured errors are only written to the debug log.
type Tracker struct {
	log *logger.Logger
}

// New creates a tracker; log may be nil
func New(log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Tracker{log: log.With("component", "error_tracker")}
}

func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	t.log.ForInvocation(ctx).Debugw("Error not reported (tracking disabled)", "error", err, "tags", tags)
	return nil
}

func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	t.log.ForInvocation(ctx).Debugw("Message not reported (tracking disabled)", "message", message, "level", level, "tags", tags)
	return nil
}

func (t *Tracker) AddBreadcrumb(context.Context, string, string, errors.Level, map[string]interface{}) {}

func (t *Tracker) Flush(context.Context) error {
	return nil
}
