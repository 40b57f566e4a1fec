package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/internal/permissions"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestAutoMigrateAndSeed(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	bootstrap := Bootstrap{
		AdminUsername: "root",
		AdminEmail:    "root@example.com",
		AdminPassword: "bootstrap-pass",
	}
	require.NoError(t, AutoMigrateAndSeed(db, bootstrap))

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(permissions.All()), permCount)

	var admin models.User
	require.NoError(t, db.Where("is_global = ?", true).First(&admin).Error)
	require.Equal(t, "root", admin.Username)
	require.Equal(t, models.UserStatusActive, admin.Status)
	require.NotEqual(t, "bootstrap-pass", admin.Password)

	var tenant models.Tenant
	require.NoError(t, db.Where("slug = ?", "default").First(&tenant).Error)
	require.Equal(t, models.TenantStatusActive, tenant.Status)

	var roleNames []string
	require.NoError(t, db.Model(&models.Role{}).Where("tenant_id = ?", tenant.ID).Order("name").Pluck("name", &roleNames).Error)
	require.Equal(t, []string{"Admin", "Employee", "Manager"}, roleNames)

	// Seeding is idempotent: a second run must not duplicate anything.
	require.NoError(t, AutoMigrateAndSeed(db, bootstrap))

	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).Where("is_global = ?", true).Count(&adminCount).Error)
	require.EqualValues(t, 1, adminCount)

	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(permissions.All()), permCount)

	var tenantCount int64
	require.NoError(t, db.Model(&models.Tenant{}).Count(&tenantCount).Error)
	require.EqualValues(t, 1, tenantCount)
}

func TestEnsureDefaultTenantSkippedWhenTenantsExist(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})
	require.NoError(t, AutoMigrate(db))

	existing := models.Tenant{Name: "Acme", Slug: "acme", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(&existing).Error)

	require.NoError(t, EnsureDefaultTenant(db))

	var count int64
	require.NoError(t, db.Model(&models.Tenant{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSyncPermissionCatalogPrunesStaleKeys(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})
	require.NoError(t, AutoMigrate(db))

	stale := models.Permission{ID: "legacy:noop", Module: "legacy", Action: "noop"}
	require.NoError(t, db.Create(&stale).Error)

	tenant := models.Tenant{Name: "acme", Slug: "acme", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(&tenant).Error)
	role := models.Role{TenantID: tenant.ID, Name: "Manager"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Model(&role).Association("Permissions").Append(&stale))

	require.NoError(t, SyncPermissionCatalog(db))

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Where("id = ?", "legacy:noop").Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, db.Preload("Permissions").First(&role, "id = ?", role.ID).Error)
	require.Empty(t, role.Permissions)
}

func TestEnsureBootstrapAdminSkippedWithoutPassword(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, EnsureBootstrapAdmin(db, Bootstrap{AdminEmail: "root@example.com"}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}
