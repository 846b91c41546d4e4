package sentry

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"zoracoin/pkg/errors"
)

const redacted = "[redacted]"

// Options configures the Sentry tracker
type Options struct {
	DSN         string
	Environment string
	Release     string
	// Signer is attached to every event as the "signer" tag.
	Signer string
	// Secrets are scrubbed from event messages and exception values before sending.
	Secrets []string
}

// Tracker implements errors.Tracker via Sentry
type Tracker struct {
	hub          *sentry.Hub
	flushTimeout time.Duration
}

// New initializes the Sentry client
func New(opts Options) (*Tracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
		BeforeSend:  scrubber(opts.Secrets),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init sentry")
	}

	hub := sentry.CurrentHub()
	if opts.Signer != "" {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("signer", opts.Signer)
		})
	}

	return &Tracker{
		hub:          hub,
		flushTimeout: 2 * time.Second,
	}, nil
}

// CaptureError sends err to Sentry. Events are grouped by tool and outcome
// when those tags are present.
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	hub := t.scoped(ctx, tags)
	if tool, ok := tags["tool"]; ok {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetFingerprint([]string{"tool", tool, tags["outcome"]})
		})
	}
	hub.CaptureException(err)
	return nil
}

// CaptureMessage sends a message to Sentry
func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	hub := t.scoped(ctx, tags)
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetLevel(convertLevel(level))
	})
	hub.CaptureMessage(message)
	return nil
}

// AddBreadcrumb adds a breadcrumb to the shared hub
func (t *Tracker) AddBreadcrumb(ctx context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
	t.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Message:  message,
		Category: category,
		Level:    convertLevel(level),
		Data:     data,
	}, &sentry.BreadcrumbHint{})
}

// Flush waits for pending events, bounded by ctx and the tracker timeout
func (t *Tracker) Flush(ctx context.Context) error {
	timeout := t.flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if !t.hub.Flush(timeout) {
		return errors.Wrap(errors.ErrUnavailable, "sentry flush timed out")
	}
	return nil
}

func (t *Tracker) scoped(ctx context.Context, tags map[string]string) *sentry.Hub {
	hub := t.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if id, ok := errors.InvocationID(ctx); ok {
			scope.SetTag("invocation_id", id)
		}
	})
	return hub
}

// scrubber returns a BeforeSend hook replacing every non-empty secret.
func scrubber(secrets []string) func(*sentry.Event, *sentry.EventHint) *sentry.Event {
	var pairs []string
	for _, s := range secrets {
		if s == "" {
			continue
		}
		pairs = append(pairs, s, redacted)
		if trimmed := strings.TrimPrefix(s, "0x"); trimmed != s && trimmed != "" {
			pairs = append(pairs, trimmed, redacted)
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	replacer := strings.NewReplacer(pairs...)

	return func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		event.Message = replacer.Replace(event.Message)
		for i := range event.Exception {
			event.Exception[i].Value = replacer.Replace(event.Exception[i].Value)
		}
		for i := range event.Breadcrumbs {
			event.Breadcrumbs[i].Message = replacer.Replace(event.Breadcrumbs[i].Message)
		}
		return event
	}
}

func convertLevel(level errors.Level) sentry.Level {
	switch level {
	case errors.LevelDebug:
		return sentry.LevelDebug
	case errors.LevelInfo:
		return sentry.LevelInfo
	case errors.LevelWarning:
		return sentry.LevelWarning
	case errors.LevelError:
		return sentry.LevelError
	case errors.LevelFatal:
		return sentry.LevelFatal
	default:
		return sentry.LevelInfo
	}
}
