package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

func openAuthTestDB(t *testing.T) *gorm.DB {
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
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func newTestAuthenticator(t *testing.T, db *gorm.DB) (*Authenticator, *JWTService) {
	t.Helper()

	jwtSvc, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "erp"})
	require.NoError(t, err)

	authn, err := NewAuthenticator(db, jwtSvc)
	require.NoError(t, err)

	return authn, jwtSvc
}

func TestAuthenticateSuccess(t *testing.T) {
	db := openAuthTestDB(t)
	authn, jwtSvc := newTestAuthenticator(t, db)

	tenant := &models.Tenant{Name: "Acme", Slug: "acme", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(tenant).Error)

	perm := &models.Permission{ID: "order:read", Module: "order", Action: "read"}
	require.NoError(t, db.Create(perm).Error)

	role := &models.Role{TenantID: tenant.ID, Name: "Employee"}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))

	user := &models.User{
		Username: "alice",
		Email:    "alice@acme.test",
		Password: "x",
		TenantID: &tenant.ID,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Association("Roles").Append(role))

	token, err := jwtSvc.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	identity, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.User.ID)
	require.NotNil(t, identity.Tenant)
	require.Equal(t, tenant.ID, identity.TenantID())
	require.True(t, identity.Snapshot.Allowed("order:read"))
}

func TestAuthenticateMissingToken(t *testing.T) {
	db := openAuthTestDB(t)
	authn, _ := newTestAuthenticator(t, db)

	_, err := authn.Authenticate(context.Background(), "")
	require.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthenticateMalformedToken(t *testing.T) {
	db := openAuthTestDB(t)
	authn, _ := newTestAuthenticator(t, db)

	_, err := authn.Authenticate(context.Background(), "not-a-jwt")
	require.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthenticateDeletedUser(t *testing.T) {
	db := openAuthTestDB(t)
	authn, jwtSvc := newTestAuthenticator(t, db)

	// Valid token whose subject no longer exists.
	token, err := jwtSvc.GenerateAccessToken("ghost-user")
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), token)
	require.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthenticateTenantMissingOnUser(t *testing.T) {
	db := openAuthTestDB(t)
	authn, jwtSvc := newTestAuthenticator(t, db)

	user := &models.User{
		Username: "stray",
		Email:    "stray@nowhere.test",
		Password: "x",
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := jwtSvc.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), token)
	require.True(t, errors.Is(err, apperrors.ErrTenantMissing))
}

func TestAuthenticateGlobalUserWithoutTenant(t *testing.T) {
	db := openAuthTestDB(t)
	authn, jwtSvc := newTestAuthenticator(t, db)

	user := &models.User{
		Username: "root",
		Email:    "root@erp.test",
		Password: "x",
		IsGlobal: true,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := jwtSvc.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	identity, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.True(t, identity.Global())
	require.Equal(t, "", identity.TenantID())
}

func TestBearerFromHeader(t *testing.T) {
	token, ok := BearerFromHeader("Bearer abc.def.ghi")
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", token)

	token, ok = BearerFromHeader("bearer abc.def.ghi")
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", token)

	_, ok = BearerFromHeader("")
	require.False(t, ok)

	_, ok = BearerFromHeader("Basic dXNlcjpwYXNz")
	require.False(t, ok)
}
