package models

import "time"

// Permission is an immutable catalog entry. The primary key is the permission
// key itself, "<module>:<action>", shared across tenants. Rows are synced from
// the in-code catalog at startup and never edited by administrators.
type Permission struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Module      string `gorm:"not null;index" json:"module"`
	Action      string `gorm:"not null" json:"action"`
	Description string `json:"description"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
