package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// EnsureRequestID returns a context carrying a request id, generating one
// when the caller did not supply it (e.g. no X-Request-ID header).
func EnsureRequestID(ctx context.Context, supplied string) (context.Context, string) {
	if supplied == "" {
		supplied = uuid.NewString()
	}
	return WithRequestID(ctx, supplied), supplied
}

func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// FromCtx returns the logger with the request id attached when one is set.
func FromCtx(ctx context.Context) *zap.Logger {
	reqID := RequestIDFrom(ctx)
	if reqID == "" {
		return L()
	}
	return L().With(zap.String("request_id", reqID))
}
