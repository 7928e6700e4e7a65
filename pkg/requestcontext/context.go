// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Transports set them; the orchestrator and audit
// layer read them without importing any transport code.
package requestcontext

import "context"

type (
	callerIDKey  struct{}
	requestIDKey struct{}
)

// WithCallerID stores the caller identity used for rate limiting and audit.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDKey{}, callerID)
}

// CallerID returns the caller identity, or "" when none was set.
func CallerID(ctx context.Context) string {
	v, _ := ctx.Value(callerIDKey{}).(string)
	return v
}

// WithRequestID stores the correlation id for one request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation id, or "" when none was set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}
