package httputil

import (
	"context"
	"net/http"
)

type userIDKey struct{}

// WithUserID attaches the verified user identity to the request context.
func WithUserID(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey{}, userID)
	return r.WithContext(ctx)
}

// GetUserID returns the verified user identity, or "" when absent.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey{}).(string)
	return userID
}
