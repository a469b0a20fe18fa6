package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

// Context keys for various values
const (
	// CallerContextKey holds the *domain.Caller resolved by the auth middleware.
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// SessionCookieName is the cookie carrying the session id in session mode.
const SessionCookieName = "sessionid"

// WithCaller stores the authenticated caller in ctx.
func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// CallerFromContext returns the caller stored by WithCaller, or nil for an
// anonymous request.
func CallerFromContext(ctx context.Context) *domain.Caller {
	caller, _ := ctx.Value(CallerContextKey).(*domain.Caller)
	return caller
}

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

var randRead = rand.Read

// generateTraceID returns 32 hex characters. If crypto/rand fails it falls
// back to a time-ordered UUIDv7, which is still unique per request.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := randRead(b); err == nil && n == TraceIDLength {
		return hex.EncodeToString(b)
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return hex.EncodeToString(id[:])
}
