package observe

import (
	"context"

	"github.com/google/uuid"
)

type dispatchIDKeyType string

const dispatchIDKey dispatchIDKeyType = "dispatch-id"

// WithDispatchID returns a context carrying the given dispatch correlation ID.
func WithDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey, id)
}

// DispatchID returns the dispatch correlation ID carried by ctx, or "".
func DispatchID(ctx context.Context) string {
	if id, ok := ctx.Value(dispatchIDKey).(string); ok {
		return id
	}
	return ""
}

// EnsureDispatchID returns ctx unchanged if it already carries a dispatch ID,
// otherwise attaches a fresh one. The returned string is the effective ID.
func EnsureDispatchID(ctx context.Context) (context.Context, string) {
	if id := DispatchID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithDispatchID(ctx, id), id
}
