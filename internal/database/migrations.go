package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/internal/permissions"
	"github.com/wasiqzahoor/erp-system/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.PermissionOverride{},
		&models.Department{},
		&models.AuditLog{},
	)
}

// SyncPermissionCatalog reconciles the permissions table with the in-code
// catalog: known keys are upserted, stale keys are removed together with
// their role attachments so no role keeps granting a retired permission.
func SyncPermissionCatalog(db *gorm.DB) error {
	defs := permissions.All()

	rows := make([]models.Permission, 0, len(defs))
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, models.Permission{
			ID:          def.Key,
			Module:      def.Module,
			Action:      def.Action,
			Description: def.Description,
		})
		keys = append(keys, def.Key)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"module", "action", "description"}),
			}).Create(&rows).Error; err != nil {
				return err
			}
		}

		var stale []models.Permission
		if err := tx.Where("id NOT IN ?", keys).Find(&stale).Error; err != nil {
			return err
		}
		for i := range stale {
			if err := tx.Model(&stale[i]).Association("Roles").Clear(); err != nil {
				return err
			}
		}
		if len(stale) > 0 {
			if err := tx.Delete(&stale).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// defaultTenantRoles are the hierarchy roles provisioned for a fresh tenant.
// The level each name maps to is derived at authorization time; granting the
// full catalog to Admin and a read-mostly subset downwards just provides a
// usable starting point that administrators can edit.
var defaultTenantRoles = []struct {
	Name    string
	Modules []string
	Actions []string
}{
	{Name: "Admin", Modules: nil, Actions: nil}, // nil means everything
	{Name: "Manager", Modules: nil, Actions: []string{"create", "read", "update", "export"}},
	{Name: "Employee", Modules: []string{"dashboard", "attendance", "order", "customer", "product"}, Actions: []string{"read", "create"}},
}

// EnsureDefaultTenant provisions a first tenant with the hierarchy roles when
// the tenants table is empty, so a fresh installation is usable immediately.
func EnsureDefaultTenant(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Tenant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tenant := models.Tenant{
		Name:   "Default",
		Slug:   "default",
		Status: models.TenantStatusActive,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		return SeedTenantRoles(tx, tenant.ID)
	})
}

// SeedTenantRoles creates the standard hierarchy roles for one tenant.
func SeedTenantRoles(db *gorm.DB, tenantID string) error {
	for _, seed := range defaultTenantRoles {
		role := models.Role{TenantID: tenantID, Name: seed.Name}
		if err := db.Where("tenant_id = ? AND name = ?", tenantID, seed.Name).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}

		var keys []string
		for _, def := range permissions.All() {
			if seed.Modules != nil && !containsString(seed.Modules, def.Module) {
				continue
			}
			if seed.Actions != nil && !containsString(seed.Actions, def.Action) {
				continue
			}
			keys = append(keys, def.Key)
		}
		if len(keys) == 0 {
			continue
		}

		var perms []models.Permission
		if err := db.Where("id IN ?", keys).Find(&perms).Error; err != nil {
			return err
		}
		items := make([]any, len(perms))
		for i := range perms {
			items[i] = &perms[i]
		}
		if err := db.Model(&role).Association("Permissions").Replace(items...); err != nil {
			return err
		}
	}
	return nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// EnsureBootstrapAdmin guarantees at least one active global administrator
// exists. It is a no-op when any global user is already present or when no
// bootstrap password is configured.
func EnsureBootstrapAdmin(db *gorm.DB, bootstrap Bootstrap) error {
	var count int64
	if err := db.Model(&models.User{}).Where("is_global = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := strings.TrimSpace(bootstrap.AdminPassword)
	if password == "" {
		return nil
	}

	// Lower-cased like every stored username so the login match finds it.
	username := strings.ToLower(strings.TrimSpace(bootstrap.AdminUsername))
	if username == "" {
		username = "admin"
	}
	email := strings.ToLower(strings.TrimSpace(bootstrap.AdminEmail))
	if email == "" {
		return errors.New("bootstrap admin email is required")
	}

	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsGlobal: true,
		Status:   models.UserStatusActive,
	}
	return db.Create(&admin).Error
}
