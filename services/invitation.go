package services

import (
	"fmt"
	"time"

	"invoicing-backend/models"
)

// InvitationService runs the invitation workflow: issue, accept, sweep.
// Accepting an invitation and creating the membership happen in the caller's
// transaction; a crash between the two can never leave an accepted
// invitation with no member.
type InvitationService struct {
	Invitations InvitationStore
	Members     TeamMemberStore
	Users       UserStore
	Roles       RoleStore

	facts []Fact
}

func (s *InvitationService) Facts() []Fact {
	out := s.facts
	s.facts = nil
	return out
}

func (s *InvitationService) record(name string, payload map[string]any) {
	s.facts = append(s.facts, Fact{Name: name, Payload: payload})
}

// Create issues a pending invitation. The invited email must not belong to
// any current member of the business.
func (s *InvitationService) Create(businessId, email, roleId string, validityHours int) (*models.Invitation, error) {
	role, err := s.Roles.FindById(roleId)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: role %s", models.ErrNotFound, roleId)
	}
	emails, err := s.Members.MemberEmails(businessId)
	if err != nil {
		return nil, err
	}
	invitation, err := models.NewInvitation(businessId, email, roleId, validityHours, emails)
	if err != nil {
		return nil, err
	}
	if err := s.Invitations.Create(invitation); err != nil {
		return nil, err
	}
	s.record("invitation.created", map[string]any{
		"invitation_id": invitation.Id,
		"business_id":   businessId,
		"email":         invitation.InvitedEmail,
	})
	return invitation, nil
}

// Accept consumes the token and creates the team member for the invited
// user, who must already be registered.
func (s *InvitationService) Accept(token string) (*models.TeamMember, error) {
	invitation, err := s.Invitations.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, fmt.Errorf("%w: invitation", models.ErrNotFound)
	}
	user, err := s.Users.FindByEmail(invitation.InvitedEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no account for %s, the user must register first", models.ErrNotFound, invitation.InvitedEmail)
	}
	if err := invitation.Accept(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.Invitations.Save(invitation); err != nil {
		return nil, err
	}
	member, err := models.NewTeamMember(user.Id, invitation.BusinessId, invitation.RoleId)
	if err != nil {
		return nil, err
	}
	if err := s.Members.Create(member); err != nil {
		return nil, err
	}
	s.record("invitation.accepted", map[string]any{
		"invitation_id": invitation.Id,
		"business_id":   invitation.BusinessId,
		"user_id":       user.Id,
	})
	return member, nil
}

func (s *InvitationService) ListByBusiness(businessId string) ([]models.Invitation, error) {
	return s.Invitations.ListByBusiness(businessId)
}

// ExpirePending sweeps every pending invitation whose expiry date has passed
// and returns how many were expired. Meant for a periodic job.
func (s *InvitationService) ExpirePending(now time.Time) (int, error) {
	pending, err := s.Invitations.PendingExpiredBefore(now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range pending {
		invitation := &pending[i]
		if !invitation.Expire() {
			continue
		}
		if err := s.Invitations.Save(invitation); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
