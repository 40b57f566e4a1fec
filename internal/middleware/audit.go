package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wasiqzahoor/erp-system/internal/services"
	"github.com/wasiqzahoor/erp-system/pkg/logger"
	"github.com/wasiqzahoor/erp-system/pkg/metrics"
)

const auditWriteTimeout = 5 * time.Second

// AuditRecorder is the write-side surface of the audit collaborator.
type AuditRecorder interface {
	Log(ctx context.Context, entry services.AuditEntry) error
}

// AuditTrail emits an audit event after each successful mutating request.
// Emission happens on a detached goroutine once the handler chain has
// completed, so it can never delay or alter the response already sent; a
// failed write is logged and dropped, never retried.
func AuditTrail(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		action := actionFromMethod(c.Request.Method)
		if action == "" {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}

		identity, ok := IdentityFromGin(c)
		if !ok {
			return
		}

		userID := identity.User.ID
		entry := services.AuditEntry{
			UserID:    &userID,
			Username:  identity.User.Username,
			Action:    action,
			Resource:  resourceFromPath(c.FullPath()),
			Result:    "success",
			Detail:    c.Request.Method + " " + c.Request.URL.Path,
			IPAddress: identity.IPAddress,
			UserAgent: identity.UserAgent,
		}
		if tenantID := identity.TenantID(); tenantID != "" {
			entry.TenantID = &tenantID
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
			defer cancel()

			if err := recorder.Log(ctx, entry); err != nil {
				metrics.AuditWriteFailures.Inc()
				logger.WithModule("audit").Warn("audit write failed",
					zap.String("action", entry.Action),
					zap.String("resource", entry.Resource),
					zap.Error(err),
				)
			}
		}()
	}
}

// actionFromMethod maps mutating HTTP verbs onto audit actions; reads return
// an empty action and are not audited.
func actionFromMethod(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return ""
	}
}

// resourceFromPath extracts the resource name from a route pattern such as
// "/api/users/:id".
func resourceFromPath(path string) string {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "api" || strings.HasPrefix(segment, ":") {
			continue
		}
		return segment
	}
	return "unknown"
}
