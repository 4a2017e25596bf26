package domain

import "context"

// Identity is the authenticated principal for one request.
// It carries no credential material.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the authentication
// middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
