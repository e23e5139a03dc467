package controllers

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/repository"
	"invoicing-backend/utils"
)

type CreateBusinessInput struct {
	Name    string `json:"name" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func CreateBusiness(c *fiber.Ctx) error {
	var input CreateBusinessInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	svc := businessService(c)
	business, err := svc.Create(input.Name, currentUser(c), input.Country)
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())

	// Fresh token scoped to the new business so the caller can work in it
	// right away.
	token, err := middlewares.GenerateJWT(currentUser(c), business.Id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"business": business,
		"token":    token,
	})
}

func GetMyBusinesses(c *fiber.Ctx) error {
	businesses := repository.Businesses{Store: store(c)}
	mine, err := businesses.ListByUser(currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"businesses": mine})
}

func GetBusiness(c *fiber.Ctx) error {
	businesses := repository.Businesses{Store: store(c)}
	business, err := businesses.FindById(currentBusiness(c))
	if err != nil {
		return err
	}
	if business == nil {
		return fiber.NewError(fiber.StatusNotFound, "business not found")
	}
	return c.JSON(business)
}

type UpdateBusinessDetailsInput struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
}

func UpdateBusinessDetails(c *fiber.Ctx) error {
	var input UpdateBusinessDetailsInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	business, err := businessService(c).UpdateDetails(currentBusiness(c), input.Name, input.Email, input.Phone, input.Website)
	if err != nil {
		return err
	}
	return c.JSON(business)
}

type UpdateBusinessAddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country" validate:"required"`
}

func UpdateBusinessAddress(c *fiber.Ctx) error {
	var input UpdateBusinessAddressInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	business, err := businessService(c).UpdateAddress(currentBusiness(c), input.Street, input.City, input.State, input.Zip, input.Country)
	if err != nil {
		return err
	}
	return c.JSON(business)
}

type UpdateBusinessBrandingInput struct {
	LogoUrl       *string `json:"logo_url"`
	ThemeSettings string  `json:"theme_settings" validate:"required"`
}

func UpdateBusinessBranding(c *fiber.Ctx) error {
	var input UpdateBusinessBrandingInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	business, err := businessService(c).UpdateBranding(currentBusiness(c), input.LogoUrl, input.ThemeSettings)
	if err != nil {
		return err
	}
	return c.JSON(business)
}

func ActivateBusiness(c *fiber.Ctx) error {
	business, err := businessService(c).SetActive(currentBusiness(c), true)
	if err != nil {
		return err
	}
	return c.JSON(business)
}

func DeactivateBusiness(c *fiber.Ctx) error {
	business, err := businessService(c).SetActive(currentBusiness(c), false)
	if err != nil {
		return err
	}
	return c.JSON(business)
}

func DeleteBusiness(c *fiber.Ctx) error {
	svc := businessService(c)
	business, err := svc.Delete(currentBusiness(c))
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(business)
}

func RestoreBusiness(c *fiber.Ctx) error {
	svc := businessService(c)
	business, err := svc.Restore(currentBusiness(c))
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(business)
}

// GetMyGrant reports the caller's resolved roles and permissions in the
// token's business.
func GetMyGrant(c *fiber.Ctx) error {
	grant, err := authorization(store(c)).Resolve(currentUser(c), currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"roles":       grant.Roles,
		"permissions": grant.Permissions,
	})
}
