package logger

import "context"

// contextKey keeps the package's context values collision-free.
type contextKey string

// RequestIDKey carries the HTTP request ID through the request context so
// the query log can correlate SQL with the request that triggered it.
const RequestIDKey contextKey = "request_id"

// ContextWithRequestID attaches the request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
