package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
	apperrors "github.com/wasiqzahoor/erp-system/pkg/errors"
)

// Config controls resolver policy.
type Config struct {
	// RejectInactive rejects requests against a deactivated tenant. Off by
	// default: deactivation then only blocks new provisioning, not existing
	// traffic.
	RejectInactive bool
}

// Resolver maps an inbound tenant identifier (storage id or subdomain slug)
// onto a tenant record.
type Resolver struct {
	db             *gorm.DB
	rejectInactive bool
}

// NewResolver constructs a tenant resolver backed by the provided database.
func NewResolver(db *gorm.DB, cfg Config) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("tenant resolver: db is required")
	}
	return &Resolver{db: db, rejectInactive: cfg.RejectInactive}, nil
}

// Resolve looks up the tenant for the given identifier. An id-shaped
// identifier is matched against id OR slug, since a slug may coincidentally
// look like an id; anything else is matched by slug only, so an invalid-id
// lookup error can never mask a valid slug.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*models.Tenant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.ErrMissingTenantID
	}

	query := r.db.WithContext(ctx).Model(&models.Tenant{})
	if isIDShaped(identifier) {
		query = query.Where("id = ? OR slug = ?", identifier, identifier)
	} else {
		query = query.Where("slug = ?", identifier)
	}

	var tenant models.Tenant
	if err := query.First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant resolver: lookup %q: %w", identifier, err)
	}

	if r.rejectInactive && !tenant.IsActive() {
		return nil, apperrors.ErrTenantInactive
	}

	return &tenant, nil
}

// isIDShaped reports whether the identifier has the shape of a storage id.
func isIDShaped(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
