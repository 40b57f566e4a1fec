package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wasiqzahoor/erp-system/internal/middleware"
	"github.com/wasiqzahoor/erp-system/internal/requestctx"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// identity retrieves the authenticated identity attached by the auth
// middleware.
func identity(c *gin.Context) (*requestctx.Identity, bool) {
	return middleware.IdentityFromGin(c)
}

// tenantScope returns the tenant id queries must be scoped to. Tenant-bound
// principals always get their own tenant; global principals may narrow to one
// tenant via the tenant_id query parameter or see everything by omitting it.
func tenantScope(c *gin.Context, id *requestctx.Identity) string {
	if id.Global() {
		return c.Query("tenant_id")
	}
	return id.TenantID()
}
