package middleware

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/wasiqzahoor/erp-system/internal/auth"
	"github.com/wasiqzahoor/erp-system/internal/requestctx"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/metrics"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// CtxIdentityKey is the gin context key under which the request identity is
// stored. The identity value itself is immutable once set.
const CtxIdentityKey = "requestIdentity"

// Auth authenticates the bearer credential and attaches the resulting
// identity to both the gin context and the request context.
func Auth(authn *iauth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := iauth.BearerFromHeader(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			response.Error(c, err)
			c.Abort()
			return
		}

		identity.IPAddress = c.ClientIP()
		identity.UserAgent = c.Request.UserAgent()

		metrics.AuthAttempts.WithLabelValues("success").Inc()
		c.Set(CtxIdentityKey, identity)
		c.Request = c.Request.WithContext(requestctx.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// IdentityFromGin retrieves the identity attached by Auth.
func IdentityFromGin(c *gin.Context) (*requestctx.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*requestctx.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
