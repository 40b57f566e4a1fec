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
	"github.com/wasiqzahoor/erp-system/pkg/crypto"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist in the
	// actor's tenant scope.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrRoleNotFound indicates a referenced role does not exist in the
	// target's tenant.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	// ErrDepartmentNotFound indicates a referenced department does not exist
	// in the target's tenant.
	ErrDepartmentNotFound = apperrors.New("DEPARTMENT_NOT_FOUND", "Department not found", http.StatusNotFound)
)

// OverrideConflictPolicy selects how concurrent override replacements by two
// administrators are handled.
type OverrideConflictPolicy string

const (
	// OverrideLastWrite lets the later replacement win silently.
	OverrideLastWrite OverrideConflictPolicy = "lastwrite"
	// OverrideOptimistic rejects a replacement whose expected version no
	// longer matches the stored one.
	OverrideOptimistic OverrideConflictPolicy = "optimistic"
)

var validUserStatuses = map[string]struct{}{
	models.UserStatusUnverified: {},
	models.UserStatusPending:    {},
	models.UserStatusActive:     {},
	models.UserStatusInactive:   {},
	models.UserStatusTerminated: {},
}

// CreateUserInput describes the fields accepted when creating a user.
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleIDs   []string
}

// UpdateUserInput enumerates mutable profile attributes. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// OverrideInput is one entry of a wholesale override replacement.
type OverrideInput struct {
	PermissionID string
	Granted      bool
}

// ListUsersOptions controls pagination for user listing.
type ListUsersOptions struct {
	Page     int
	PageSize int
	Query    string
}

// UserAdminService performs administrative actions on users. Every mutating
// operation re-loads both actor-visible state and the target's fresh
// snapshot, then applies the hierarchy guard before touching storage.
type UserAdminService struct {
	db             *gorm.DB
	loader         *permissions.Loader
	conflictPolicy OverrideConflictPolicy
}

// NewUserAdminService constructs a UserAdminService instance.
func NewUserAdminService(db *gorm.DB, policy OverrideConflictPolicy) (*UserAdminService, error) {
	if db == nil {
		return nil, errors.New("user admin service: db is required")
	}
	if policy == "" {
		policy = OverrideLastWrite
	}
	if policy != OverrideLastWrite && policy != OverrideOptimistic {
		return nil, fmt.Errorf("user admin service: unknown override conflict policy %q", policy)
	}

	loader, err := permissions.NewLoader(db)
	if err != nil {
		return nil, err
	}

	return &UserAdminService{db: db, loader: loader, conflictPolicy: policy}, nil
}

// List returns the users of one tenant. Global actors may pass an empty
// tenantID to list across tenants.
func (s *UserAdminService) List(ctx context.Context, tenantID string, opts ListUsersOptions) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	query := s.db.WithContext(ctx).Model(&models.User{})
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		like := "%" + q + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user admin service: count users: %w", err)
	}

	var users []models.User
	if err := query.
		Preload("Roles").
		Preload("Department").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("user admin service: list users: %w", err)
	}

	return users, total, nil
}

// Get loads one user within the tenant scope.
func (s *UserAdminService) Get(ctx context.Context, tenantID, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Overrides").
		Preload("Department")
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var user models.User
	if err := query.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user admin service: load user: %w", err)
	}
	return &user, nil
}

// Create provisions a new user in the given tenant with a hashed password.
// Role assignment at creation is limited to roles of the same tenant.
func (s *UserAdminService) Create(ctx context.Context, tenantID string, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	if tenantID == "" {
		return nil, apperrors.NewBadRequest("tenant id is required")
	}

	// Login matches on the lower-cased identifier, so store usernames
	// lower-cased too or mixed-case accounts could never sign in by name.
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return nil, apperrors.NewBadRequest("username is required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user admin service: hash password: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		TenantID:  &tenantID,
		Status:    models.UserStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.New("USER_EXISTS", "Username or email already in use", http.StatusConflict)
			}
			return err
		}

		roleIDs := normaliseIDs(input.RoleIDs)
		if len(roleIDs) == 0 {
			return nil
		}

		var roles []models.Role
		if err := tx.Where("tenant_id = ? AND id IN ?", tenantID, roleIDs).Find(&roles).Error; err != nil {
			return fmt.Errorf("user admin service: load roles: %w", err)
		}
		if len(roles) != len(roleIDs) {
			return ErrRoleNotFound
		}

		return tx.Model(user).Association("Roles").Replace(rolePointers(roles)...)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, tenantID, user.ID)
}

// Update mutates the target's profile attributes, enforcing rank. Updating
// one's own profile is always permitted.
func (s *UserAdminService) Update(ctx context.Context, actor *permissions.Snapshot, targetID string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanModify(actor, targetSnap); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.NewBadRequest("email cannot be empty")
		}
		updates["email"] = email
	}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if len(updates) == 0 {
		return target, nil
	}

	if err := s.db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.New("USER_EXISTS", "Username or email already in use", http.StatusConflict)
		}
		return nil, fmt.Errorf("user admin service: update user: %w", err)
	}

	return s.Get(ctx, snapshotTenant(actor), targetID)
}

// SetStatus transitions the target's lifecycle status, enforcing rank and
// the anti-lockout safeguard.
func (s *UserAdminService) SetStatus(ctx context.Context, actor *permissions.Snapshot, targetID, status string) (*models.User, error) {
	ctx = ensureContext(ctx)

	if _, ok := validUserStatuses[status]; !ok {
		return nil, apperrors.NewBadRequest("unknown user status " + status)
	}

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanSetStatus(actor, targetSnap, status); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(target).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("user admin service: update status: %w", err)
	}

	target.Status = status
	return target, nil
}

// SetRoles replaces the target's role set with roles from the target's
// tenant, enforcing rank.
func (s *UserAdminService) SetRoles(ctx context.Context, actor *permissions.Snapshot, targetID string, roleIDs []string) (*models.User, error) {
	ctx = ensureContext(ctx)

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanModify(actor, targetSnap); err != nil {
		return nil, err
	}

	roleIDs = normaliseIDs(roleIDs)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var roles []models.Role
		if len(roleIDs) > 0 {
			tenantID := ""
			if target.TenantID != nil {
				tenantID = *target.TenantID
			}
			if err := tx.Where("tenant_id = ? AND id IN ?", tenantID, roleIDs).Find(&roles).Error; err != nil {
				return fmt.Errorf("user admin service: load roles: %w", err)
			}
			if len(roles) != len(roleIDs) {
				return ErrRoleNotFound
			}
		}

		return tx.Model(target).Association("Roles").Replace(rolePointers(roles)...)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, snapshotTenant(actor), targetID)
}

// SetDepartment assigns the target to a department of its own tenant,
// enforcing rank. An empty departmentID clears the assignment.
func (s *UserAdminService) SetDepartment(ctx context.Context, actor *permissions.Snapshot, targetID, departmentID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanModify(actor, targetSnap); err != nil {
		return nil, err
	}

	departmentID = strings.TrimSpace(departmentID)
	if departmentID == "" {
		if err := s.db.WithContext(ctx).Model(target).Update("department_id", nil).Error; err != nil {
			return nil, fmt.Errorf("user admin service: clear department: %w", err)
		}
		return s.Get(ctx, snapshotTenant(actor), targetID)
	}

	tenantID := ""
	if target.TenantID != nil {
		tenantID = *target.TenantID
	}

	var department models.Department
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, departmentID).
		First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("user admin service: load department: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(target).Update("department_id", department.ID).Error; err != nil {
		return nil, fmt.Errorf("user admin service: update department: %w", err)
	}

	return s.Get(ctx, snapshotTenant(actor), targetID)
}

// ReplaceOverrides swaps the target's override list wholesale. Under the
// optimistic policy the caller must present the version it read; a mismatch
// means another administrator replaced the list in between and the request
// conflicts. Under last-write the version is ignored.
func (s *UserAdminService) ReplaceOverrides(ctx context.Context, actor *permissions.Snapshot, targetID string, overrides []OverrideInput, expectedVersion *int) (*models.User, error) {
	ctx = ensureContext(ctx)

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanModify(actor, targetSnap); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(overrides))
	for _, override := range overrides {
		key := strings.TrimSpace(override.PermissionID)
		if !permissions.Known(key) {
			return nil, apperrors.NewBadRequest("unknown permission key " + key)
		}
		if _, dup := seen[key]; dup {
			return nil, apperrors.NewBadRequest("duplicate override for " + key)
		}
		seen[key] = struct{}{}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.conflictPolicy == OverrideOptimistic {
			if expectedVersion == nil {
				return apperrors.NewBadRequest("overrides version is required")
			}
			res := tx.Model(&models.User{}).
				Where("id = ? AND overrides_version = ?", target.ID, *expectedVersion).
				Update("overrides_version", gorm.Expr("overrides_version + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.ErrOverrideConflict
			}
		} else {
			if err := tx.Model(&models.User{}).
				Where("id = ?", target.ID).
				Update("overrides_version", gorm.Expr("overrides_version + 1")).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", target.ID).Delete(&models.PermissionOverride{}).Error; err != nil {
			return fmt.Errorf("user admin service: clear overrides: %w", err)
		}

		for _, override := range overrides {
			row := models.PermissionOverride{
				UserID:       target.ID,
				PermissionID: strings.TrimSpace(override.PermissionID),
				Granted:      override.Granted,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("user admin service: create override: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, snapshotTenant(actor), targetID)
}

// Delete removes the target user, enforcing rank and the self-deletion ban.
func (s *UserAdminService) Delete(ctx context.Context, actor *permissions.Snapshot, targetID string) error {
	ctx = ensureContext(ctx)

	target, targetSnap, err := s.loadTarget(ctx, actor, targetID)
	if err != nil {
		return err
	}

	if err := permissions.CanDelete(actor, targetSnap); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(target).Association("Roles").Clear(); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.PermissionOverride{}).Error; err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
}

// loadTarget fetches the target with a fresh snapshot and enforces tenant
// scoping: a non-global actor can only reach users of its own tenant.
func (s *UserAdminService) loadTarget(ctx context.Context, actor *permissions.Snapshot, targetID string) (*models.User, *permissions.Snapshot, error) {
	if actor == nil {
		return nil, nil, errors.New("user admin service: actor snapshot is required")
	}

	target, targetSnap, err := s.loader.Load(ctx, targetID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if !actor.Global && targetSnap.TenantID != actor.TenantID {
		// Do not leak existence across tenants.
		return nil, nil, ErrUserNotFound
	}

	return target, targetSnap, nil
}

func snapshotTenant(actor *permissions.Snapshot) string {
	if actor == nil || actor.Global {
		return ""
	}
	return actor.TenantID
}

func rolePointers(roles []models.Role) []any {
	out := make([]any, len(roles))
	for i := range roles {
		out[i] = &roles[i]
	}
	return out
}
