package models

import "gorm.io/datatypes"

// Tenant lifecycle statuses.
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// Tenant represents an isolated company scope. Every tenant-scoped record
// carries a TenantID and must be filtered by it on every read.
type Tenant struct {
	BaseModel

	Name   string `gorm:"not null" json:"name"`
	Slug   string `gorm:"uniqueIndex;not null" json:"slug"`
	Status string `gorm:"default:active;index" json:"status"`

	Settings datatypes.JSON `json:"settings"`

	Users []User `gorm:"foreignKey:TenantID" json:"users,omitempty"`
}

// IsActive reports whether the tenant accepts traffic under the
// reject-inactive policy.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == TenantStatusActive
}
