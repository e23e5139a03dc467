package controllers

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/repository"
	"invoicing-backend/utils"
)

type CreateClientInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
}

func CreateClient(c *fiber.Ctx) error {
	var input CreateClientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	client, err := models.NewClient(currentBusiness(c), input.CompanyName, input.Email)
	if err != nil {
		return err
	}
	client.FirstName = input.FirstName
	client.LastName = input.LastName
	client.PhoneNumber = input.PhoneNumber
	client.Address = input.Address
	client.City = input.City
	client.Country = input.Country
	client.Zip = input.Zip

	clients := repository.Clients{Store: store(c)}
	if err := clients.Create(client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create client",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func GetClients(c *fiber.Ctx) error {
	clients := repository.Clients{Store: store(c)}
	list, err := clients.ListByBusiness(currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"clients": list,
		"message": "success",
	})
}

func GetClient(c *fiber.Ctx) error {
	clients := repository.Clients{Store: store(c)}
	client, err := clients.FindById(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	if client == nil {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	return c.JSON(client)
}

type UpdateClientInput struct {
	CompanyName *string `json:"company_name"`
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	Zip         *string `json:"zip"`
}

func UpdateClient(c *fiber.Ctx) error {
	var input UpdateClientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	clients := repository.Clients{Store: store(c)}
	client, err := clients.FindById(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	if client == nil {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return c.JSON(client)
	}
	if err := clients.Updates(client, updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update client",
			"error":   err.Error(),
		})
	}
	return c.JSON(client)
}
