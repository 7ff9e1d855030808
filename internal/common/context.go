package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyDocument  contextKey = "document"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithDocument records the path of the document being processed.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeyDocument, path)
}

// DocumentFromContext returns the document path set by WithDocument.
func DocumentFromContext(ctx context.Context) string {
	if path, ok := ctx.Value(ContextKeyDocument).(string); ok {
		return path
	}
	return ""
}

// WithOptionalTimeout applies timeout when it is positive.
func WithOptionalTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
