package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/permissions"
	"github.com/wasiqzahoor/erp-system/internal/services"
	appErrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// RoleHandler exposes role management and the permission catalog.
type RoleHandler struct {
	svc *services.RoleService
}

// NewRoleHandler constructs a RoleHandler backed by the role service.
func NewRoleHandler(db *gorm.DB) (*RoleHandler, error) {
	svc, err := services.NewRoleService(db)
	if err != nil {
		return nil, err
	}
	return &RoleHandler{svc: svc}, nil
}

// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	roles, err := h.svc.List(requestContext(c), tenantScope(c, id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, roles)
}

// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	role, err := h.svc.Get(requestContext(c), tenantScope(c, id), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

type createRoleRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=64"`
	Description   string   `json:"description" validate:"max=255"`
	PermissionIDs []string `json:"permission_ids"`
	TenantID      string   `json:"tenant_id"`
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req createRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tenantID := id.TenantID()
	if id.Global() {
		tenantID = req.TenantID
	}
	if tenantID == "" {
		response.Error(c, appErrors.NewBadRequest("tenant id is required"))
		return
	}

	role, err := h.svc.Create(requestContext(c), tenantID, services.CreateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, role)
}

type updateRoleRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	PermissionIDs *[]string `json:"permission_ids"`
}

// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req updateRoleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	role, err := h.svc.Update(requestContext(c), tenantScope(c, id), c.Param("id"), services.UpdateRoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.svc.Delete(requestContext(c), tenantScope(c, id), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/permissions
//
// The catalog is defined in code; this endpoint only reads the registry, so
// it needs no database access.
func (h *RoleHandler) Catalog(c *gin.Context) {
	response.Success(c, http.StatusOK, permissions.All())
}
