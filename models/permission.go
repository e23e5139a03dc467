package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a named capability. The catalog is fixed at startup and rows
// are never mutated once a role references them.
type Permission struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
}

func (permission *Permission) BeforeCreate(tx *gorm.DB) (err error) {
	if permission.Id == "" {
		permission.Id = uuid.NewString()
	}
	return
}

// OwnerRoleName is the role auto-provisioned with the full catalog for the
// business owner.
const OwnerRoleName = "Owner"

// PermissionCatalog is the complete set of capabilities the system knows.
// Seeded idempotently at startup.
var PermissionCatalog = []Permission{
	{Name: "business:manage", Description: "Update business details, address and branding"},
	{Name: "business:delete", Description: "Soft-delete and restore the business"},
	{Name: "team:manage", Description: "Add, remove and re-role team members"},
	{Name: "invitation:manage", Description: "Issue and revoke team invitations"},
	{Name: "client:manage", Description: "Create and update clients"},
	{Name: "invoice:create", Description: "Create draft invoices"},
	{Name: "invoice:manage", Description: "Edit, send and void invoices"},
	{Name: "invoice:payment", Description: "Record payments against invoices"},
}

// Role bundles permissions under a tenant-independent name.
type Role struct {
	Id          string       `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"unique;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions"`
}

func (role *Role) BeforeCreate(tx *gorm.DB) (err error) {
	if role.Id == "" {
		role.Id = uuid.NewString()
	}
	return
}

// Grant adds a permission to the role; a permission appears at most once.
func (role *Role) Grant(permission Permission) {
	for _, p := range role.Permissions {
		if p.Name == permission.Name {
			return
		}
	}
	role.Permissions = append(role.Permissions, permission)
}

// Revoke removes a permission by name. Access already resolved in a completed
// request is not retroactively affected.
func (role *Role) Revoke(name string) {
	for i, p := range role.Permissions {
		if p.Name == name {
			role.Permissions = append(role.Permissions[:i], role.Permissions[i+1:]...)
			return
		}
	}
}

func (role *Role) HasPermission(name string) bool {
	for _, p := range role.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (role *Role) PermissionNames() []string {
	names := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		names = append(names, p.Name)
	}
	return names
}
