package models

// Role bundles permission keys for a tenant. Role names are unique within a
// tenant, not globally. The hierarchy level of a role is derived from its
// name on every evaluation and is deliberately not a column here.
type Role struct {
	BaseModel

	TenantID    string `gorm:"type:uuid;index;uniqueIndex:idx_roles_tenant_name;not null" json:"tenant_id"`
	Name        string `gorm:"uniqueIndex:idx_roles_tenant_name;not null" json:"name"`
	Description string `json:"description"`

	Tenant      *Tenant      `json:"tenant,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles;" json:"users,omitempty"`
}
