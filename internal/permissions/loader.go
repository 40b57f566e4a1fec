package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/models"
)

// ErrUserNotFound indicates the snapshot subject does not exist.
var ErrUserNotFound = errors.New("permissions: user not found")

// Loader assembles authorization snapshots from durable storage. Every call
// re-reads the user's role and override graph so that administrative edits
// take effect on the next request; there is deliberately no cache.
type Loader struct {
	db *gorm.DB
}

// NewLoader constructs a snapshot loader backed by the provided database.
func NewLoader(db *gorm.DB) (*Loader, error) {
	if db == nil {
		return nil, errors.New("permissions: db is required")
	}
	return &Loader{db: db}, nil
}

// Load fetches the user with its roles, role permissions, overrides and
// tenant, returning both the record and a flattened snapshot.
func (l *Loader) Load(ctx context.Context, userID string) (*models.User, *Snapshot, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil, errors.New("permissions: user id is required")
	}

	var user models.User
	err := l.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Overrides").
		Preload("Tenant").
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("permissions: load user: %w", err)
	}

	return &user, NewSnapshot(&user), nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
