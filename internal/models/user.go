package models

import "time"

// User lifecycle statuses.
const (
	UserStatusUnverified = "unverified"
	UserStatusPending    = "pending"
	UserStatusActive     = "active"
	UserStatusInactive   = "inactive"
	UserStatusTerminated = "terminated"
)

// User is the acting principal. A non-global user belongs to exactly one
// tenant; a global user is exempt from tenant scoping and all permission
// checks.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	TenantID *string `gorm:"type:uuid;index" json:"tenant_id"`
	Tenant   *Tenant `json:"tenant,omitempty"`

	IsGlobal bool   `gorm:"default:false" json:"is_global"`
	Status   string `gorm:"default:pending;index" json:"status"`

	DepartmentID *string     `gorm:"type:uuid;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`

	Roles     []Role               `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	Overrides []PermissionOverride `gorm:"foreignKey:UserID" json:"overrides,omitempty"`

	// OverridesVersion increments each time the override list is replaced,
	// enabling optimistic concurrency when the policy requires it.
	OverridesVersion int `gorm:"default:0" json:"overrides_version"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}
