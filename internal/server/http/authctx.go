package httpserver

import (
	"context"

	"github.com/and161185/recipebox/internal/model"
)

type ctxKey string

const (
	userKey      ctxKey = "rb.user"
	requestIDKey ctxKey = "rb.requestID"
)

// WithUser stores the authenticated user in context.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated user from context.
func UserFromCtx(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}

// RequestIDFromCtx returns the request id set by the RequestID middleware.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
