package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zoracoin/pkg/errors"
)

type contextKey struct{}

// InvocationMetadata captures request-scoped identifiers for tool telemetry.
type InvocationMetadata struct {
	ID        uuid.UUID
	Tool      string
	StartedAt time.Time
}

// NewInvocation starts metadata for one call of tool
func NewInvocation(tool string) InvocationMetadata {
	return InvocationMetadata{
		ID:        uuid.New(),
		Tool:      tool,
		StartedAt: time.Now(),
	}
}

// WithInvocationMetadata injects tool invocation metadata into a context.
// The id is also exposed to the error tracker.
func WithInvocationMetadata(ctx context.Context, meta InvocationMetadata) context.Context {
	ctx = errors.WithInvocationID(ctx, meta.ID.String())
	return context.WithValue(ctx, contextKey{}, meta)
}

// MetadataFromContext extracts invocation metadata if present.
func MetadataFromContext(ctx context.Context) (InvocationMetadata, bool) {
	meta, ok := ctx.Value(contextKey{}).(InvocationMetadata)
	return meta, ok
}

// InvocationID returns the invocation id from ctx, or "" outside a tool call.
func InvocationID(ctx context.Context) string {
	if meta, ok := MetadataFromContext(ctx); ok {
		return meta.ID.String()
	}
	return ""
}
