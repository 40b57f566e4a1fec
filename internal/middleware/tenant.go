package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wasiqzahoor/erp-system/internal/tenant"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// DefaultTenantHeader carries either a storage id or a subdomain slug.
const DefaultTenantHeader = "X-Tenant-ID"

// TenantContext resolves the inbound tenant identifier and pins the request
// to that tenant. It must run after Auth. Resolution is skipped entirely for
// global principals, which act tenant-agnostically; for everyone else the
// identifier is mandatory and must match the tenant the principal belongs to.
//
// Routes where a principal only touches its own record (profile and similar)
// should simply not mount this middleware; exemption is route wiring, not a
// runtime flag.
func TenantContext(resolver *tenant.Resolver, header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultTenantHeader
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFromGin(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if identity.Global() {
			c.Next()
			return
		}

		resolved, err := resolver.Resolve(c.Request.Context(), c.GetHeader(header))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// The header must name the tenant the principal belongs to; a
		// mismatch would be a cross-tenant access attempt.
		if identity.TenantID() != resolved.ID {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
