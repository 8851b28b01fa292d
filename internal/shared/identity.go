package shared

import "context"

// Identity describes the account making a request. It is resolved once by the
// identity middleware and threaded through context; domain code never reads
// ambient session state.
type Identity struct {
	Username   string
	AccountNo  string
	CustomerID int64
	IsCustomer bool
}

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved identity to ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached to ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
