package middleware

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	iauth "github.com/wasiqzahoor/erp-system/internal/auth"
	"github.com/wasiqzahoor/erp-system/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openMiddlewareTestDB(t *testing.T) *gorm.DB {
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

func newTestJWT(t *testing.T) *iauth.JWTService {
	t.Helper()

	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "middleware-test-secret", Issuer: "erp-test"})
	require.NoError(t, err)
	return jwt
}

func seedTenantRecord(t *testing.T, db *gorm.DB, slug string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{Name: slug, Slug: slug, Status: models.TenantStatusActive}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedUserRecord(t *testing.T, db *gorm.DB, tenant *models.Tenant, username string, roles ...*models.Role) *models.User {
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

func seedRoleRecord(t *testing.T, db *gorm.DB, tenantID, name string, permKeys ...string) *models.Role {
	t.Helper()

	role := &models.Role{TenantID: tenantID, Name: name}
	require.NoError(t, db.Create(role).Error)
	for _, key := range permKeys {
		perm := &models.Permission{ID: key}
		if err := db.Create(perm).Error; err != nil {
			require.NoError(t, db.First(perm, "id = ?", key).Error)
		}
		require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	}
	return role
}
