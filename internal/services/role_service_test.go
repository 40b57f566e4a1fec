package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasiqzahoor/erp-system/internal/models"
)

func TestRoleCreateWithPermissions(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	tenant := seedTenant(t, db, "acme")
	seedPermission(t, db, "order:create")
	seedPermission(t, db, "order:read")

	role, err := svc.Create(context.Background(), tenant.ID, CreateRoleInput{
		Name:          "Sales Manager",
		Description:   "Runs the sales team",
		PermissionIDs: []string{"order:create", "order:read"},
	})
	require.NoError(t, err)
	require.Equal(t, "Sales Manager", role.Name)
	require.Len(t, role.Permissions, 2)
}

func TestRoleCreateRejectsUnknownPermission(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	tenant := seedTenant(t, db, "acme")

	_, err = svc.Create(context.Background(), tenant.ID, CreateRoleInput{
		Name:          "Broken",
		PermissionIDs: []string{"nonsense:verb"},
	})
	require.Error(t, err)
}

func TestRoleCreateDuplicateNamePerTenant(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	acme := seedTenant(t, db, "acme")
	beta := seedTenant(t, db, "beta")

	_, err = svc.Create(context.Background(), acme.ID, CreateRoleInput{Name: "Manager"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), acme.ID, CreateRoleInput{Name: "Manager"})
	require.True(t, errors.Is(err, ErrRoleNameTaken))

	// Same name in a different tenant is fine.
	_, err = svc.Create(context.Background(), beta.ID, CreateRoleInput{Name: "Manager"})
	require.NoError(t, err)
}

func TestRoleUpdateReplacesPermissionSet(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	tenant := seedTenant(t, db, "acme")
	seedPermission(t, db, "order:create")
	seedPermission(t, db, "invoice:read")

	role, err := svc.Create(context.Background(), tenant.ID, CreateRoleInput{
		Name:          "Clerk",
		PermissionIDs: []string{"order:create"},
	})
	require.NoError(t, err)

	newDesc := "Handles invoices"
	newPerms := []string{"invoice:read"}
	updated, err := svc.Update(context.Background(), tenant.ID, role.ID, UpdateRoleInput{
		Description:   &newDesc,
		PermissionIDs: &newPerms,
	})
	require.NoError(t, err)
	require.Equal(t, "Handles invoices", updated.Description)
	require.Len(t, updated.Permissions, 1)
	require.Equal(t, "invoice:read", updated.Permissions[0].ID)

	// A non-nil empty list clears the set entirely.
	empty := []string{}
	updated, err = svc.Update(context.Background(), tenant.ID, role.ID, UpdateRoleInput{PermissionIDs: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.Permissions)
}

func TestRoleGetScopedToTenant(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	acme := seedTenant(t, db, "acme")
	beta := seedTenant(t, db, "beta")
	role := seedRole(t, db, acme.ID, "Manager")

	_, err = svc.Get(context.Background(), beta.ID, role.ID)
	require.True(t, errors.Is(err, ErrRoleNotFound))

	found, err := svc.Get(context.Background(), acme.ID, role.ID)
	require.NoError(t, err)
	require.Equal(t, role.ID, found.ID)
}

func TestRoleDeleteDetachesUsers(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewRoleService(db)
	require.NoError(t, err)

	tenant := seedTenant(t, db, "acme")
	role := seedRole(t, db, tenant.ID, "Manager")
	user := seedUser(t, db, tenant, "manager", role)

	require.NoError(t, svc.Delete(context.Background(), tenant.ID, role.ID))

	var reloaded models.User
	require.NoError(t, db.Preload("Roles").First(&reloaded, "id = ?", user.ID).Error)
	require.Empty(t, reloaded.Roles)

	_, err = svc.Get(context.Background(), tenant.ID, role.ID)
	require.True(t, errors.Is(err, ErrRoleNotFound))
}
