package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMember binds one user to one business with exactly one role. It is the
// row authorization resolves against; no row means no authority.
type TeamMember struct {
	Id         string `json:"id" gorm:"primaryKey"`
	UserId     string `json:"user_id" gorm:"not null;uniqueIndex:idx_team_members_user_business"`
	BusinessId string `json:"business_id" gorm:"not null;uniqueIndex:idx_team_members_user_business"`
	RoleId     string `json:"role_id" gorm:"not null"`

	User User `json:"user" gorm:"foreignKey:UserId;references:Id"`
	Role Role `json:"role" gorm:"foreignKey:RoleId;references:Id"`

	CreatedAt time.Time `json:"created_at"`
}

func (member *TeamMember) BeforeCreate(tx *gorm.DB) (err error) {
	if member.Id == "" {
		member.Id = uuid.NewString()
	}
	return
}

func NewTeamMember(userId, businessId, roleId string) (*TeamMember, error) {
	if strings.TrimSpace(userId) == "" || strings.TrimSpace(businessId) == "" {
		return nil, validationErr("user id and business id are required")
	}
	if strings.TrimSpace(roleId) == "" {
		return nil, validationErr("role id is required")
	}
	return &TeamMember{UserId: userId, BusinessId: businessId, RoleId: roleId}, nil
}

// UpdateRole reassigns the member's single role.
func (member *TeamMember) UpdateRole(roleId string) error {
	if strings.TrimSpace(roleId) == "" {
		return validationErr("role id is required")
	}
	member.RoleId = roleId
	member.Role = Role{}
	return nil
}
