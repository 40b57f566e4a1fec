package handlers

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/services"
	appErrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// AuditHandler serves the audit trail read endpoints.
type AuditHandler struct {
	svc *services.AuditService
}

// NewAuditHandler constructs an AuditHandler backed by the audit service.
func NewAuditHandler(db *gorm.DB) (*AuditHandler, error) {
	svc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &AuditHandler{svc: svc}, nil
}

func auditFiltersFromQuery(c *gin.Context) services.AuditFilters {
	var filters services.AuditFilters
	filters.UserID = c.Query("user_id")
	filters.Action = c.Query("action")
	filters.Result = c.Query("result")
	filters.Resource = c.Query("resource")

	if s := c.Query("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filters.Since = &t
		}
	}
	if u := c.Query("until"); u != "" {
		if t, err := time.Parse(time.RFC3339, u); err == nil {
			filters.Until = &t
		}
	}
	return filters
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 50)

	logs, total, err := h.svc.List(requestContext(c), tenantScope(c, id), services.AuditListOptions{
		Page:     page,
		PageSize: per,
		Filters:  auditFiltersFromQuery(c),
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, logs, &response.Meta{Page: page, PerPage: per, Total: int(total)})
}

// GET /api/audit/export
//
// Streams the matching entries as CSV.
func (h *AuditHandler) Export(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	logs, err := h.svc.Export(requestContext(c), tenantScope(c, id), auditFiltersFromQuery(c))
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="audit-log.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"created_at", "tenant_id", "user_id", "username", "action", "resource", "result", "detail", "ip_address"})
	for _, entry := range logs {
		tenantID, userID := "", ""
		if entry.TenantID != nil {
			tenantID = *entry.TenantID
		}
		if entry.UserID != nil {
			userID = *entry.UserID
		}
		_ = w.Write([]string{
			entry.CreatedAt.Format(time.RFC3339),
			tenantID,
			userID,
			entry.Username,
			entry.Action,
			entry.Resource,
			entry.Result,
			entry.Detail,
			entry.IPAddress,
		})
	}
	w.Flush()
}
