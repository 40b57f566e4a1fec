package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

func openResolverTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Tenant{}, &models.User{}, &models.Role{}, &models.Permission{}, &models.PermissionOverride{}, &models.Department{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

func TestResolveBySlug(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	created := &models.Tenant{Name: "Acme Corp", Slug: "acme-corp", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(created).Error)

	tenant, err := resolver.Resolve(context.Background(), "acme-corp")
	require.NoError(t, err)
	require.Equal(t, created.ID, tenant.ID)
}

func TestResolveByID(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	created := &models.Tenant{Name: "Acme Corp", Slug: "acme-corp", Status: models.TenantStatusActive}
	require.NoError(t, db.Create(created).Error)

	tenant, err := resolver.Resolve(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, tenant.ID)
}

func TestResolveIDShapedIdentifierFallsBackToSlug(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	// A slug that coincidentally looks like a storage id must still resolve
	// even though no tenant has that id.
	slug := uuid.NewString()
	created := &models.Tenant{Name: "Oddly Named", Slug: slug, Status: models.TenantStatusActive}
	require.NoError(t, db.Create(created).Error)

	tenant, err := resolver.Resolve(context.Background(), slug)
	require.NoError(t, err)
	require.Equal(t, created.ID, tenant.ID)
}

func TestResolveMissingIdentifier(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "  ")
	require.True(t, errors.Is(err, apperrors.ErrMissingTenantID))
}

func TestResolveUnknownTenant(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "no-such-tenant")
	require.True(t, errors.Is(err, apperrors.ErrTenantNotFound))
}

func TestResolveInactiveTenantDefaultPolicy(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{})
	require.NoError(t, err)

	created := &models.Tenant{Name: "Dormant", Slug: "dormant", Status: models.TenantStatusInactive}
	require.NoError(t, db.Create(created).Error)

	// Default policy: inactive tenants still resolve.
	tenant, err := resolver.Resolve(context.Background(), "dormant")
	require.NoError(t, err)
	require.Equal(t, created.ID, tenant.ID)
}

func TestResolveInactiveTenantRejectPolicy(t *testing.T) {
	db := openResolverTestDB(t)
	resolver, err := NewResolver(db, Config{RejectInactive: true})
	require.NoError(t, err)

	created := &models.Tenant{Name: "Dormant", Slug: "dormant", Status: models.TenantStatusInactive}
	require.NoError(t, db.Create(created).Error)

	_, err = resolver.Resolve(context.Background(), "dormant")
	require.True(t, errors.Is(err, apperrors.ErrTenantInactive))
}
