package logging

import "context"

type requestIDKey struct{}

// WithRequestID stores a request id in ctx for FromContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns a child logger tagged with the request id in ctx, if any.
func FromContext(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != "" {
		return With("request_id", id)
	}
	return &Logger{sugar: current()}
}
