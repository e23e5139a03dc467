package services

import (
	"fmt"

	"invoicing-backend/models"
)

// Authorization answers "who is this user, in which business, with which
// role" by resolving the unique team member row for the pair. No row means
// no authority at all, owners included.
type Authorization struct {
	Members     TeamMemberStore
	Roles       RoleStore
	Permissions PermissionStore
}

// Grant is the resolved authority for a (user, business) pair. Both sets are
// empty when the user has no membership there.
type Grant struct {
	Roles       []string
	Permissions []string
}

func (g Grant) Has(permission string) bool {
	for _, p := range g.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Resolve looks up the team member for the pair and returns the role and
// permission names attached. Absence of authority is empty sets, not an
// error; the caller decides whether to deny.
func (a *Authorization) Resolve(userId, businessId string) (Grant, error) {
	member, err := a.Members.FindByUserAndBusiness(userId, businessId)
	if err != nil {
		return Grant{}, err
	}
	if member == nil {
		return Grant{Roles: []string{}, Permissions: []string{}}, nil
	}
	role, err := a.Roles.FindById(member.RoleId)
	if err != nil {
		return Grant{}, err
	}
	if role == nil {
		return Grant{Roles: []string{}, Permissions: []string{}}, nil
	}
	return Grant{
		Roles:       []string{role.Name},
		Permissions: role.PermissionNames(),
	}, nil
}

// EnsureOwnerRole returns the Owner role, creating it with the full
// permission catalog the first time it is needed. Lookup-by-name first keeps
// the provisioning idempotent.
func (a *Authorization) EnsureOwnerRole() (*models.Role, error) {
	role, err := a.Roles.FindByName(models.OwnerRoleName)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}
	catalog, err := a.Permissions.All()
	if err != nil {
		return nil, err
	}
	role = &models.Role{
		Name:        models.OwnerRoleName,
		Description: "Full access to the business",
	}
	for _, permission := range catalog {
		role.Grant(permission)
	}
	if err := a.Roles.Create(role); err != nil {
		return nil, fmt.Errorf("provision owner role: %w", err)
	}
	return role, nil
}
