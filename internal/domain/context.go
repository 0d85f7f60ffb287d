package domain

import "context"

type identityKey struct{}

// Identity carries the authenticated caller through request context.
// Every tenant-scoped operation derives its organization filter from it.
type Identity struct {
	UserID         string
	OrganizationID string
	Email          string
	Role           UserRole
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// WithIdentity stores an Identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the Identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
