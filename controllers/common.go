package controllers

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/repository"
	"invoicing-backend/services"
)

// Services are rebuilt per request on top of the request transaction so
// every use case commits or rolls back as one.

func store(c *fiber.Ctx) *repository.Store {
	return repository.New(middlewares.Tx(c))
}

func authorization(s *repository.Store) *services.Authorization {
	return &services.Authorization{
		Members:     repository.Members{Store: s},
		Roles:       repository.Roles{Store: s},
		Permissions: s,
	}
}

func businessService(c *fiber.Ctx) *services.BusinessService {
	s := store(c)
	return &services.BusinessService{
		Businesses: repository.Businesses{Store: s},
		Members:    repository.Members{Store: s},
		Auth:       authorization(s),
	}
}

func invitationService(c *fiber.Ctx) *services.InvitationService {
	s := store(c)
	return &services.InvitationService{
		Invitations: repository.Invitations{Store: s},
		Members:     repository.Members{Store: s},
		Users:       repository.Users{Store: s},
		Roles:       repository.Roles{Store: s},
	}
}

func invoiceService(c *fiber.Ctx) *services.InvoiceService {
	s := store(c)
	return &services.InvoiceService{
		Invoices:   repository.Invoices{Store: s},
		Businesses: repository.Businesses{Store: s},
	}
}

func currentUser(c *fiber.Ctx) string {
	userId, _ := c.Locals("userID").(string)
	return userId
}

func currentBusiness(c *fiber.Ctx) string {
	businessId, _ := c.Locals("businessID").(string)
	return businessId
}
