package auth

import "context"

// contextKey is a private key type so this package's context values cannot
// collide with values set by other packages.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// NewContextWithIdentity returns a child context carrying the resolved user.
func NewContextWithIdentity(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, identityContextKey, user)
}

// IdentityFromContext extracts the resolved user from the context.
// The boolean reports whether an identity was resolved for this request;
// under Optional mode handlers must treat false as "anonymous", not an error.
func IdentityFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(identityContextKey).(*User)
	return user, ok
}
