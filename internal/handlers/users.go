package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/services"
	appErrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// UserHandler exposes the user administration endpoints.
type UserHandler struct {
	svc *services.UserAdminService
}

// NewUserHandler constructs a UserHandler backed by the user admin service.
func NewUserHandler(db *gorm.DB, policy services.OverrideConflictPolicy) (*UserHandler, error) {
	svc, err := services.NewUserAdminService(db, policy)
	if err != nil {
		return nil, err
	}
	return &UserHandler{svc: svc}, nil
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page := parseIntQuery(c, "page", 1)
	per := parseIntQuery(c, "per_page", 50)

	users, total, err := h.svc.List(requestContext(c), tenantScope(c, id), services.ListUsersOptions{
		Page:     page,
		PageSize: per,
		Query:    c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{Page: page, PerPage: per, Total: int(total)})
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.svc.Get(requestContext(c), tenantScope(c, id), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type createUserRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=64"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	RoleIDs   []string `json:"role_ids"`
	TenantID  string   `json:"tenant_id"`
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req createUserRequest
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

	user, err := h.svc.Create(requestContext(c), tenantID, services.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req updateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Update(requestContext(c), id.Snapshot, c.Param("id"), services.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unverified pending active inactive terminated"`
}

// PUT /api/users/:id/status
func (h *UserHandler) SetStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req setStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.SetStatus(requestContext(c), id.Snapshot, c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type setRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// PUT /api/users/:id/roles
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req setRolesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.SetRoles(requestContext(c), id.Snapshot, c.Param("id"), req.RoleIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type setDepartmentRequest struct {
	DepartmentID string `json:"department_id"`
}

// PUT /api/users/:id/department
func (h *UserHandler) SetDepartment(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req setDepartmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.SetDepartment(requestContext(c), id.Snapshot, c.Param("id"), req.DepartmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type overrideEntry struct {
	PermissionID string `json:"permission_id" validate:"required"`
	Granted      bool   `json:"granted"`
}

type replaceOverridesRequest struct {
	Overrides []overrideEntry `json:"overrides"`
	// Version echoes the overrides_version the caller read. It is required
	// under the optimistic conflict policy and ignored under last-write.
	Version *int `json:"version"`
}

// PUT /api/users/:id/overrides
func (h *UserHandler) ReplaceOverrides(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req replaceOverridesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	overrides := make([]services.OverrideInput, 0, len(req.Overrides))
	for _, entry := range req.Overrides {
		overrides = append(overrides, services.OverrideInput{
			PermissionID: entry.PermissionID,
			Granted:      entry.Granted,
		})
	}

	user, err := h.svc.ReplaceOverrides(requestContext(c), id.Snapshot, c.Param("id"), overrides, req.Version)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.svc.Delete(requestContext(c), id.Snapshot, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
