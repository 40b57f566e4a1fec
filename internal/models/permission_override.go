package models

// PermissionOverride is a per-user exception to role-derived permissions.
// Granted=true adds the permission regardless of roles; Granted=false revokes
// it even when a role would grant it. Overrides always win over roles.
type PermissionOverride struct {
	BaseModel

	UserID       string `gorm:"type:uuid;index;uniqueIndex:idx_overrides_user_permission;not null" json:"user_id"`
	PermissionID string `gorm:"uniqueIndex:idx_overrides_user_permission;not null" json:"permission_id"`
	Granted      bool   `gorm:"not null" json:"granted"`

	Permission *Permission `json:"permission,omitempty"`
}
