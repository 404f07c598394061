package handler

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// HeaderUserID carries the authenticated user's id, resolved by the
// upstream gateway before the request reaches this service.
const HeaderUserID = "X-User-Id"

// WithUserID stores the authenticated user id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id set by the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
