package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.PermissionOverride{},
		&models.Department{},
		&models.AuditLog{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func seedTenant(t *testing.T, db *gorm.DB, slug string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{Name: slug, Slug: slug, Status: models.TenantStatusActive}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedPermission(t *testing.T, db *gorm.DB, key string) *models.Permission {
	t.Helper()

	perm := &models.Permission{ID: key}
	require.NoError(t, db.Create(perm).Error)
	return perm
}

func seedRole(t *testing.T, db *gorm.DB, tenantID, name string, perms ...*models.Permission) *models.Role {
	t.Helper()

	role := &models.Role{TenantID: tenantID, Name: name}
	require.NoError(t, db.Create(role).Error)
	for _, perm := range perms {
		require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	}
	return role
}

func seedUser(t *testing.T, db *gorm.DB, tenant *models.Tenant, username string, roles ...*models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.test",
		Password: "x",
		Status:   models.UserStatusActive,
	}
	if tenant != nil {
		user.TenantID = &tenant.ID
	}
	require.NoError(t, db.Create(user).Error)
	for _, role := range roles {
		require.NoError(t, db.Model(user).Association("Roles").Append(role))
	}
	return user
}
