package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/repository"
	"invoicing-backend/utils"
)

func GetTeamMembers(c *fiber.Ctx) error {
	members, err := businessService(c).ListMembers(currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"members": members})
}

type AddTeamMemberInput struct {
	Email  string `json:"email" validate:"required,email"`
	RoleId string `json:"role_id" validate:"required"`
}

// AddTeamMember directly binds an already-registered user, bypassing the
// invitation flow.
func AddTeamMember(c *fiber.Ctx) error {
	var input AddTeamMemberInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	users := repository.Users{Store: store(c)}
	user, err := users.FindByEmail(input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return fiber.NewError(fiber.StatusNotFound, "no account for that email")
	}

	svc := businessService(c)
	member, err := svc.AddMember(currentBusiness(c), user.Id, input.RoleId)
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.Status(fiber.StatusCreated).JSON(member)
}

type UpdateMemberRoleInput struct {
	RoleId string `json:"role_id" validate:"required"`
}

func UpdateTeamMemberRole(c *fiber.Ctx) error {
	var input UpdateMemberRoleInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	member, err := businessService(c).UpdateMemberRole(currentBusiness(c), c.Params("userId"), input.RoleId)
	if err != nil {
		return err
	}
	return c.JSON(member)
}

func RemoveTeamMember(c *fiber.Ctx) error {
	svc := businessService(c)
	if err := svc.RemoveMember(currentBusiness(c), c.Params("userId")); err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(fiber.Map{"message": "success"})
}

type CreateInvitationInput struct {
	Email         string `json:"email" validate:"required,email"`
	RoleId        string `json:"role_id" validate:"required"`
	ValidityHours int    `json:"validity_hours"`
}

func CreateInvitation(c *fiber.Ctx) error {
	var input CreateInvitationInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.ValidityHours == 0 {
		input.ValidityHours = 72
	}

	svc := invitationService(c)
	invitation, err := svc.Create(currentBusiness(c), input.Email, input.RoleId, input.ValidityHours)
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())

	// The token is returned once, for delivery to the invitee.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"invitation": invitation,
		"token":      invitation.Token,
	})
}

func GetInvitations(c *fiber.Ctx) error {
	invitations, err := invitationService(c).ListByBusiness(currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invitations": invitations})
}

type AcceptInvitationInput struct {
	Token string `json:"token" validate:"required"`
}

// AcceptInvitation is public: the invitee needs no prior membership, only a
// registered account under the invited email.
func AcceptInvitation(c *fiber.Ctx) error {
	var input AcceptInvitationInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	svc := invitationService(c)
	member, err := svc.Accept(input.Token)
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(member)
}

// ExpireInvitations sweeps pending invitations past their expiry date.
// Intended for a periodic caller.
func ExpireInvitations(c *fiber.Ctx) error {
	expired, err := invitationService(c).ExpirePending(time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"expired": expired})
}

func GetRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := middlewares.Tx(c).Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"roles": roles})
}

type CreateRoleInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// CreateRole builds a role from catalog permission names.
func CreateRole(c *fiber.Ctx) error {
	var input CreateRoleInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	s := store(c)
	catalog, err := s.All()
	if err != nil {
		return err
	}
	byName := make(map[string]models.Permission, len(catalog))
	for _, permission := range catalog {
		byName[permission.Name] = permission
	}

	role := models.Role{Name: input.Name, Description: input.Description}
	for _, name := range input.Permissions {
		permission, ok := byName[name]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown permission: "+name)
		}
		role.Grant(permission)
	}
	roles := repository.Roles{Store: s}
	if existing, err := roles.FindByName(role.Name); err != nil {
		return err
	} else if existing != nil {
		return fiber.NewError(fiber.StatusConflict, "role already exists")
	}
	if err := roles.Create(&role); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}
