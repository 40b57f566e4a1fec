package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/permissions"
	"github.com/wasiqzahoor/erp-system/internal/requestctx"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

// Authenticator verifies bearer credentials and loads the acting principal
// together with its tenant. It never writes; its only output is the request
// identity.
type Authenticator struct {
	jwt    *JWTService
	loader *permissions.Loader
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(db *gorm.DB, jwt *JWTService) (*Authenticator, error) {
	if jwt == nil {
		return nil, errors.New("authenticator: jwt service is required")
	}
	loader, err := permissions.NewLoader(db)
	if err != nil {
		return nil, err
	}
	return &Authenticator{jwt: jwt, loader: loader}, nil
}

// Authenticate validates the bearer token, loads the user with its role and
// override graph, and produces the immutable request identity. All failure
// modes fail closed:
//   - missing, malformed or expired token: unauthenticated
//   - token subject no longer exists: unauthenticated
//   - non-global user without a tenant: tenant-missing (data integrity)
func (a *Authenticator) Authenticate(ctx context.Context, bearer string) (*requestctx.Identity, error) {
	token := strings.TrimSpace(bearer)
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := a.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized.WithInternal(err)
	}

	user, snapshot, err := a.loader.Load(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized.WithInternal(err)
		}
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}

	if !user.IsGlobal && user.TenantID == nil {
		return nil, apperrors.ErrTenantMissing
	}

	return &requestctx.Identity{
		User:     user,
		Tenant:   user.Tenant,
		Snapshot: snapshot,
	}, nil
}

// BearerFromHeader extracts the token from an Authorization header value.
func BearerFromHeader(header string) (string, bool) {
	if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(header[7:]), true
}
