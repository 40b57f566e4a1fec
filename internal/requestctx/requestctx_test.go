package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasiqzahoor/erp-system/internal/models"
)

func TestWithIdentityRoundTrip(t *testing.T) {
	identity := &Identity{
		User:   &models.User{BaseModel: models.BaseModel{ID: "u1"}},
		Tenant: &models.Tenant{BaseModel: models.BaseModel{ID: "t1"}},
	}

	ctx := WithIdentity(context.Background(), identity)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", got.User.ID)
	require.Equal(t, "t1", got.TenantID())
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)

	_, ok = FromContext(nil)
	require.False(t, ok)
}

func TestGlobalFlag(t *testing.T) {
	var nilIdentity *Identity
	require.False(t, nilIdentity.Global())

	identity := &Identity{User: &models.User{IsGlobal: true}}
	require.True(t, identity.Global())
	require.Equal(t, "", identity.TenantID())
}
