package models

// Department groups users within a tenant. Department names are unique per
// tenant.
type Department struct {
	BaseModel

	TenantID string `gorm:"type:uuid;index;uniqueIndex:idx_departments_tenant_name;not null" json:"tenant_id"`
	Name     string `gorm:"uniqueIndex:idx_departments_tenant_name;not null" json:"name"`

	Tenant *Tenant `json:"tenant,omitempty"`
	Users  []User  `gorm:"foreignKey:DepartmentID" json:"users,omitempty"`
}
