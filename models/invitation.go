package models

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is a time-boxed, single-use offer of a role within a business.
// Accepted and Expired are terminal; the token never transitions twice.
type Invitation struct {
	Id           string           `json:"id" gorm:"primaryKey"`
	BusinessId   string           `json:"business_id" gorm:"not null;index"`
	InvitedEmail string           `json:"invited_email" gorm:"not null"`
	RoleId       string           `json:"role_id" gorm:"not null"`
	Token        string           `json:"-" gorm:"uniqueIndex;not null"`
	ExpiryDate   time.Time        `json:"expiry_date" gorm:"not null"`
	Status       InvitationStatus `json:"status" gorm:"not null"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (invitation *Invitation) BeforeCreate(tx *gorm.DB) (err error) {
	if invitation.Id == "" {
		invitation.Id = uuid.NewString()
	}
	return
}

// GenerateInvitationToken returns 32 bytes of crypto randomness as a URL-safe
// string, suitable for an acceptance link.
func GenerateInvitationToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// NewInvitation creates a pending invitation. existingMemberEmails are the
// emails of the business's current team; inviting one of them again is a
// conflict, matched case-insensitively.
func NewInvitation(businessId, email, roleId string, validityHours int, existingMemberEmails []string) (*Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationErr("invited email is required")
	}
	if strings.TrimSpace(roleId) == "" {
		return nil, validationErr("role id is required")
	}
	if validityHours <= 0 {
		return nil, validationErr("validity hours must be positive")
	}
	for _, existing := range existingMemberEmails {
		if strings.EqualFold(strings.TrimSpace(existing), email) {
			return nil, conflictErr("%s is already a member of this business", email)
		}
	}
	token, err := GenerateInvitationToken()
	if err != nil {
		return nil, err
	}
	return &Invitation{
		BusinessId:   businessId,
		InvitedEmail: email,
		RoleId:       roleId,
		Token:        token,
		ExpiryDate:   time.Now().UTC().Add(time.Duration(validityHours) * time.Hour),
		Status:       InvitationPending,
	}, nil
}

func (invitation *Invitation) IsExpired(now time.Time) bool {
	return now.After(invitation.ExpiryDate)
}

// Accept consumes the token. Legal only while pending and before expiry,
// judged against the wall clock at use time. Creating the team member is the
// caller's follow-up in the same unit of work.
func (invitation *Invitation) Accept(now time.Time) error {
	if invitation.Status != InvitationPending {
		return invalidStateErr("invitation is %s, only pending invitations can be accepted", invitation.Status)
	}
	if invitation.IsExpired(now) {
		return invalidStateErr("invitation expired at %s", invitation.ExpiryDate.Format(time.RFC3339))
	}
	invitation.Status = InvitationAccepted
	return nil
}

// Expire marks a pending invitation expired. Anything else is a no-op; it
// reports whether the status changed so sweeps can count their work.
func (invitation *Invitation) Expire() bool {
	if invitation.Status != InvitationPending {
		return false
	}
	invitation.Status = InvitationExpired
	return true
}
