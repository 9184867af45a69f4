package user

import "drmp-backend/internal/domain/base"

type PermissionType string

const (
	PermissionMenu   PermissionType = "MENU"
	PermissionButton PermissionType = "BUTTON"
	PermissionAPI    PermissionType = "API"
)

type Role struct {
	base.Model
	Name        string       `gorm:"column:name;size:50;not null" json:"name"`
	Code        string       `gorm:"column:code;size:50;not null;index" json:"code"`
	Description string       `gorm:"column:description;size:255" json:"description,omitempty"`
	OrgType     string       `gorm:"column:org_type;size:16" json:"org_type,omitempty"`
	IsDefault   bool         `gorm:"column:is_default;default:false" json:"is_default"`
	SortOrder   int          `gorm:"column:sort_order;default:0" json:"sort_order"`
	Permissions []Permission `gorm:"many2many:role_permissions;joinForeignKey:role_id;joinReferences:permission_id" json:"permissions,omitempty"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Permission is hierarchical via ParentID (0 = root).
type Permission struct {
	base.Model
	Name        string         `gorm:"column:name;size:100;not null" json:"name"`
	Code        string         `gorm:"column:code;size:100;not null;index" json:"code"`
	Type        PermissionType `gorm:"column:type;size:16;not null" json:"type"`
	ParentID    uint64         `gorm:"column:parent_id;default:0" json:"parent_id"`
	Path        string         `gorm:"column:path;size:255" json:"path,omitempty"`
	Method      string         `gorm:"column:method;size:10" json:"method,omitempty"`
	Icon        string         `gorm:"column:icon;size:100" json:"icon,omitempty"`
	SortOrder   int            `gorm:"column:sort_order;default:0" json:"sort_order"`
	Description string         `gorm:"column:description;size:255" json:"description,omitempty"`
}

func (Permission) TableName() string { return "permissions" }
