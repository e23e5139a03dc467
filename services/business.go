package services

import (
	"fmt"

	"invoicing-backend/models"
)

// BusinessService carries the use cases that touch the business aggregate
// together with its team. Every method runs inside the caller's transaction;
// facts are published by the caller after commit.
type BusinessService struct {
	Businesses BusinessStore
	Members    TeamMemberStore
	Auth       *Authorization

	facts []Fact
}

// Facts drains the facts accumulated by the last use case.
func (s *BusinessService) Facts() []Fact {
	out := s.facts
	s.facts = nil
	return out
}

func (s *BusinessService) record(name string, payload map[string]any) {
	s.facts = append(s.facts, Fact{Name: name, Payload: payload})
}

// Create provisions the business along with the owner's membership: the
// Owner role (full catalog) and a team member row for the owner always come
// into existence in the same unit of work.
func (s *BusinessService) Create(name, ownerId, country string) (*models.Business, error) {
	business, err := models.NewBusiness(name, ownerId, country)
	if err != nil {
		return nil, err
	}
	taken, err := s.Businesses.NameCountryTaken(business.Name, business.Country, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: a business named %q already exists in %s", models.ErrConflict, business.Name, business.Country)
	}
	if err := s.Businesses.Create(business); err != nil {
		return nil, err
	}
	ownerRole, err := s.Auth.EnsureOwnerRole()
	if err != nil {
		return nil, err
	}
	member, err := models.NewTeamMember(ownerId, business.Id, ownerRole.Id)
	if err != nil {
		return nil, err
	}
	if err := s.Members.Create(member); err != nil {
		return nil, err
	}
	s.record("business.created", map[string]any{"business_id": business.Id, "owner_id": ownerId})
	return business, nil
}

func (s *BusinessService) get(id string) (*models.Business, error) {
	business, err := s.Businesses.FindById(id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("%w: business %s", models.ErrNotFound, id)
	}
	return business, nil
}

func (s *BusinessService) UpdateDetails(id, name string, email, phone, website *string) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := business.UpdateDetails(name, email, phone, website); err != nil {
		return nil, err
	}
	return business, s.Businesses.Save(business)
}

func (s *BusinessService) UpdateAddress(id, street, city, state, zip, country string) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := business.UpdateAddress(street, city, state, zip, country); err != nil {
		return nil, err
	}
	return business, s.Businesses.Save(business)
}

func (s *BusinessService) UpdateBranding(id string, logoUrl *string, themeSettings string) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := business.UpdateBranding(logoUrl, themeSettings); err != nil {
		return nil, err
	}
	return business, s.Businesses.Save(business)
}

func (s *BusinessService) SetActive(id string, active bool) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if active {
		business.Activate()
	} else {
		business.Deactivate()
	}
	return business, s.Businesses.Save(business)
}

// Delete is always soft. The business, its clients, invoices and team all
// stay in place, excluded from normal queries.
func (s *BusinessService) Delete(id string) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	business.Delete()
	if err := s.Businesses.Save(business); err != nil {
		return nil, err
	}
	s.record("business.deleted", map[string]any{"business_id": business.Id})
	return business, nil
}

// Restore undoes a soft delete, refused when another active business took
// the (name, country) pair in the meantime.
func (s *BusinessService) Restore(id string) (*models.Business, error) {
	business, err := s.get(id)
	if err != nil {
		return nil, err
	}
	taken, err := s.Businesses.NameCountryTaken(business.Name, business.Country, business.Id)
	if err != nil {
		return nil, err
	}
	if err := business.Restore(taken); err != nil {
		return nil, err
	}
	if err := s.Businesses.Save(business); err != nil {
		return nil, err
	}
	s.record("business.restored", map[string]any{"business_id": business.Id})
	return business, nil
}

// ListMembers returns the team of a business.
func (s *BusinessService) ListMembers(businessId string) ([]models.TeamMember, error) {
	return s.Members.ListByBusiness(businessId)
}

// AddMember directly binds a registered user to the business with a role,
// bypassing the invitation flow (owner action).
func (s *BusinessService) AddMember(businessId, userId, roleId string) (*models.TeamMember, error) {
	existing, err := s.Members.FindByUserAndBusiness(userId, businessId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member of this business", models.ErrConflict)
	}
	role, err := s.Auth.Roles.FindById(roleId)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s", models.ErrNotFound, roleId)
	}
	member, err := models.NewTeamMember(userId, businessId, roleId)
	if err != nil {
		return nil, err
	}
	if err := s.Members.Create(member); err != nil {
		return nil, err
	}
	s.record("team_member.added", map[string]any{"business_id": businessId, "user_id": userId})
	return member, nil
}

func (s *BusinessService) UpdateMemberRole(businessId, userId, roleId string) (*models.TeamMember, error) {
	member, err := s.Members.FindByUserAndBusiness(userId, businessId)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: no membership for user %s", models.ErrNotFound, userId)
	}
	role, err := s.Auth.Roles.FindById(roleId)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s", models.ErrNotFound, roleId)
	}
	if err := member.UpdateRole(roleId); err != nil {
		return nil, err
	}
	return member, s.Members.Save(member)
}

func (s *BusinessService) RemoveMember(businessId, userId string) error {
	member, err := s.Members.FindByUserAndBusiness(userId, businessId)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: no membership for user %s", models.ErrNotFound, userId)
	}
	if err := s.Members.Delete(member); err != nil {
		return err
	}
	s.record("team_member.removed", map[string]any{"business_id": businessId, "user_id": userId})
	return nil
}
