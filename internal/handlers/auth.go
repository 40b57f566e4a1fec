package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/wasiqzahoor/erp-system/internal/auth"
	"github.com/wasiqzahoor/erp-system/internal/models"
	"github.com/wasiqzahoor/erp-system/internal/permissions"
	"github.com/wasiqzahoor/erp-system/pkg/crypto"
	appErrors "github.com/wasiqzahoor/erp-system/pkg/errors"
	"github.com/wasiqzahoor/erp-system/pkg/metrics"
	"github.com/wasiqzahoor/erp-system/pkg/response"
)

// AuthHandler manages the authentication surface (login and the current
// principal's profile).
type AuthHandler struct {
	db     *gorm.DB
	jwt    *iauth.JWTService
	loader *permissions.Loader
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	if db == nil {
		return nil, errors.New("auth handler: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth handler: jwt service is required")
	}
	loader, err := permissions.NewLoader(db)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{db: db, jwt: jwt, loader: loader}, nil
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	var user models.User
	err := h.db.WithContext(requestContext(c)).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, appErrors.ErrInvalidCredentials)
		} else {
			response.Error(c, appErrors.ErrInternalServer)
		}
		return
	}

	if !crypto.VerifyPassword(user.Password, req.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	if !user.IsActive() {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	now := time.Now()
	// Best effort; a failed login-stamp update must not fail the login.
	_ = h.db.WithContext(requestContext(c)).Model(&user).Updates(map[string]any{
		"last_login_at": now,
		"last_login_ip": c.ClientIP(),
	}).Error

	_, snap, err := h.loader.Load(requestContext(c), user.ID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInternalServer)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"tokens": tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(h.jwt.AccessTokenTTL().Seconds()),
		},
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"is_global":  user.IsGlobal,
			"tenant_id":  user.TenantID,
		},
		"permissions": snap.Keys(),
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload := gin.H{
		"user":        id.User,
		"permissions": id.Snapshot.Keys(),
		"rank":        id.Snapshot.Rank.String(),
		"is_global":   id.Snapshot.Global,
	}
	if id.Tenant != nil {
		payload["tenant"] = id.Tenant
	}

	response.Success(c, http.StatusOK, payload)
}
