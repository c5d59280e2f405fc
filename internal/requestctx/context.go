// Package requestctx provides request-scoped values (e.g. request_id) set by
// the consuming boundary.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

var requestIDKey = &contextKey{}

// SetRequestID stores request_id in the context.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request_id from context, or "" if not set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// Ensure returns ctx unchanged when it already carries a request_id,
// otherwise generates one.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := RequestID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return SetRequestID(ctx, id), id
}
