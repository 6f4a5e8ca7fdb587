package auth

import "context"

// Identity is the authenticated caller resolved from an API key. Cart and
// checkout operations scope every aggregate to its UserID.
type Identity struct {
	UserID  string
	KeyName string
	Scopes  []string
}

type identityKey struct{}

// WithIdentity installs the authenticated identity into ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
