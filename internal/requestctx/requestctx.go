package requestctx

import (
	"context"

	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/internal/permissions"
)

// Identity is the immutable authorization context for one request. It is
// constructed once by the authenticator and passed by value through the
// pipeline; nothing mutates it after construction.
type Identity struct {
	User     *models.User
	Tenant   *models.Tenant
	Snapshot *permissions.Snapshot

	IPAddress string
	UserAgent string
}

// Global reports whether the request acts with tenant-agnostic authority.
func (i *Identity) Global() bool {
	return i != nil && i.User != nil && i.User.IsGlobal
}

// TenantID returns the tenant id the identity is scoped to, empty for global
// principals.
func (i *Identity) TenantID() string {
	if i == nil || i.Tenant == nil {
		return ""
	}
	return i.Tenant.ID
}

type identityContextKey struct{}

// WithIdentity injects the identity into the supplied context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// FromContext extracts the identity stored by the authentication middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
