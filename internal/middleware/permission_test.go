package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/wasiqzahoor/erp-system/internal/auth"
	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

func newPermissionRouter(t *testing.T, db *gorm.DB, jwt *iauth.JWTService, key string) *gin.Engine {
	t.Helper()

	authn, err := iauth.NewAuthenticator(db, jwt)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Auth(authn))
	r.GET("/probe", RequirePermission(key), func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func probeWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermissionAllowsRoleGrant(t *testing.T) {
	db := openMiddlewareTestDB(t)
	jwt := newTestJWT(t)

	acme := seedTenantRecord(t, db, "acme")
	role := seedRoleRecord(t, db, acme.ID, "Employee", "order:read")
	user := seedUserRecord(t, db, acme, "worker", role)
	r := newPermissionRouter(t, db, jwt, "order:read")

	token, err := jwt.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, probeWithToken(r, token).Code)
}

func TestRequirePermissionDeniesMissingGrant(t *testing.T) {
	db := openMiddlewareTestDB(t)
	jwt := newTestJWT(t)

	acme := seedTenantRecord(t, db, "acme")
	role := seedRoleRecord(t, db, acme.ID, "Employee", "order:read")
	user := seedUserRecord(t, db, acme, "worker", role)
	r := newPermissionRouter(t, db, jwt, "order:delete")

	token, err := jwt.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	w := probeWithToken(r, token)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequirePermissionRevokedOverrideBeatsRole(t *testing.T) {
	db := openMiddlewareTestDB(t)
	jwt := newTestJWT(t)

	acme := seedTenantRecord(t, db, "acme")
	role := seedRoleRecord(t, db, acme.ID, "Employee", "order:read")
	user := seedUserRecord(t, db, acme, "worker", role)
	require.NoError(t, db.Create(&models.PermissionOverride{
		UserID:       user.ID,
		PermissionID: "order:read",
		Granted:      false,
	}).Error)

	r := newPermissionRouter(t, db, jwt, "order:read")

	token, err := jwt.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	w := probeWithToken(r, token)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "PERMISSION_REVOKED")
}

func TestRequirePermissionGlobalBypassesChecks(t *testing.T) {
	db := openMiddlewareTestDB(t)
	jwt := newTestJWT(t)

	root := seedUserRecord(t, db, nil, "root")
	require.NoError(t, db.Model(root).Update("is_global", true).Error)
	r := newPermissionRouter(t, db, jwt, "order:delete")

	token, err := jwt.GenerateAccessToken(root.ID)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, probeWithToken(r, token).Code)
}

func TestRequirePermissionPanicsOnUnknownKey(t *testing.T) {
	require.Panics(t, func() {
		RequirePermission("made:up")
	})
}
