package controllers

import (
	"net/mail"
	"time"

	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/repository"
)

type RegisterInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Password != input.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	users := repository.Users{Store: store(c)}
	existing, err := users.FindByEmail(input.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email already exists",
		})
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}
	user.SetPassword(input.Password)
	if err := users.Create(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create user",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type LoginInput struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	BusinessId string `json:"business_id"`
}

func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid email format",
		})
	}

	s := store(c)
	users := repository.Users{Store: s}
	user, err := users.FindByEmail(input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}
	if err := user.ComparePassword(input.Password); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	// Scope the token to the requested business, or the user's first one.
	businesses := repository.Businesses{Store: s}
	businessId := input.BusinessId
	if businessId != "" {
		members := repository.Members{Store: s}
		member, err := members.FindByUserAndBusiness(user.Id, businessId)
		if err != nil {
			return err
		}
		if member == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "no membership in the requested business",
			})
		}
	} else {
		mine, err := businesses.ListByUser(user.Id)
		if err != nil {
			return err
		}
		if len(mine) > 0 {
			businessId = mine[0].Id
		}
	}

	token, err := middlewares.GenerateJWT(user.Id, businessId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not issue token",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"token":       token,
		"business_id": businessId,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
}

// SwitchBusiness re-issues the token scoped to another business the user
// belongs to.
func SwitchBusiness(c *fiber.Ctx) error {
	businessId := c.Params("id")
	members := repository.Members{Store: store(c)}
	member, err := members.FindByUserAndBusiness(currentUser(c), businessId)
	if err != nil {
		return err
	}
	if member == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "no membership in the requested business",
		})
	}
	token, err := middlewares.GenerateJWT(currentUser(c), businessId)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "business_id": businessId})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
