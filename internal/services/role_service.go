package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/internal/permissions"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

// ErrRoleNameTaken indicates the (tenant, name) pair already exists.
var ErrRoleNameTaken = apperrors.New("ROLE_NAME_TAKEN", "A role with this name already exists", http.StatusConflict)

// CreateRoleInput describes the fields accepted when creating a role.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// UpdateRoleInput enumerates mutable role attributes. Nil fields are left
// untouched; a non-nil empty permission list clears the set.
type UpdateRoleInput struct {
	Name          *string
	Description   *string
	PermissionIDs *[]string
}

// RoleService manages tenant-scoped roles and their permission sets. The
// hierarchy level of a role is never written here; it is a pure function of
// the role's name, evaluated at authorization time.
type RoleService struct {
	db *gorm.DB
}

// NewRoleService constructs a RoleService instance.
func NewRoleService(db *gorm.DB) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{db: db}, nil
}

// List returns the roles of one tenant with their permissions.
func (s *RoleService) List(ctx context.Context, tenantID string) ([]models.Role, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Preload("Permissions").Order("name ASC")
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var roles []models.Role
	if err := query.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}
	return roles, nil
}

// Get loads one role within the tenant scope.
func (s *RoleService) Get(ctx context.Context, tenantID, roleID string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Preload("Permissions")
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var role models.Role
	if err := query.First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}
	return &role, nil
}

// Create provisions a role and attaches catalog permissions to it.
func (s *RoleService) Create(ctx context.Context, tenantID string, input CreateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	if tenantID == "" {
		return nil, apperrors.NewBadRequest("tenant id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	permissionIDs := normaliseIDs(input.PermissionIDs)
	for _, key := range permissionIDs {
		if !permissions.Known(key) {
			return nil, apperrors.NewBadRequest("unknown permission key " + key)
		}
	}

	role := &models.Role{
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrRoleNameTaken
			}
			return err
		}
		return s.attachPermissions(tx, role, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, tenantID, role.ID)
}

// Update mutates a role's name, description or permission set.
func (s *RoleService) Update(ctx context.Context, tenantID, roleID string, input UpdateRoleInput) (*models.Role, error) {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, tenantID, roleID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.NewBadRequest("role name cannot be empty")
			}
			updates["name"] = name
		}
		if input.Description != nil {
			updates["description"] = strings.TrimSpace(*input.Description)
		}
		if len(updates) > 0 {
			if err := tx.Model(role).Updates(updates).Error; err != nil {
				if isUniqueConstraintError(err) {
					return ErrRoleNameTaken
				}
				return err
			}
		}

		if input.PermissionIDs != nil {
			permissionIDs := normaliseIDs(*input.PermissionIDs)
			for _, key := range permissionIDs {
				if !permissions.Known(key) {
					return apperrors.NewBadRequest("unknown permission key " + key)
				}
			}
			if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
				return err
			}
			return s.attachPermissions(tx, role, permissionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, tenantID, roleID)
}

// Delete removes a role and detaches it from its users.
func (s *RoleService) Delete(ctx context.Context, tenantID, roleID string) error {
	ctx = ensureContext(ctx)

	role, err := s.Get(ctx, tenantID, roleID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Users").Clear(); err != nil {
			return err
		}
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return err
		}
		return tx.Delete(role).Error
	})
}

func (s *RoleService) attachPermissions(tx *gorm.DB, role *models.Role, permissionIDs []string) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	var perms []models.Permission
	if err := tx.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
		return fmt.Errorf("role service: load permissions: %w", err)
	}
	if len(perms) != len(permissionIDs) {
		return apperrors.NewBadRequest("permission catalog out of sync with request")
	}

	items := make([]any, len(perms))
	for i := range perms {
		items[i] = &perms[i]
	}
	return tx.Model(role).Association("Permissions").Append(items...)
}
