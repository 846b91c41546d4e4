package shared

import (
	"context"
	"time"

	"zoracoin/pkg/logger"
)

// PublishTimeout bounds a detached event publish
const PublishTimeout = 5 * time.Second

// PublishDetached runs publish in the background so the tool reply never waits
// on the event sink. The publish context keeps the call's values but not its
// cancellation, and expires after PublishTimeout. Failures are logged with kv.
func PublishDetached(ctx context.Context, log *logger.Logger, publish func(context.Context) error, kv ...interface{}) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, PublishTimeout)
		defer cancel()
		if err := publish(ctx); err != nil {
			log.Warnw("Tool: event not published", append(kv, "error", err)...)
		}
	}()
}
