package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"invoicing-backend/middlewares"
	"invoicing-backend/models"
	"invoicing-backend/utils"
)

type CreateInvoiceInput struct {
	ClientId      string `json:"client_id" validate:"required"`
	InvoiceNumber string `json:"invoice_number" validate:"required"`
	Currency      string `json:"currency" validate:"required"`
}

func CreateInvoice(c *fiber.Ctx) error {
	var input CreateInvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	invoice, err := invoiceService(c).Create(currentBusiness(c), input.ClientId, input.InvoiceNumber, input.Currency)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// invoiceView decorates the stored invoice with its query-time status, so
// sent invoices past due read as overdue without a stored transition.
type invoiceView struct {
	models.Invoice
	EffectiveStatus models.InvoiceStatus `json:"effective_status"`
}

func viewOf(invoice models.Invoice, now time.Time) invoiceView {
	return invoiceView{Invoice: invoice, EffectiveStatus: invoice.EffectiveStatus(now)}
}

func GetInvoices(c *fiber.Ctx) error {
	invoices, err := invoiceService(c).List(currentBusiness(c))
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	views := make([]invoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, viewOf(invoice, now))
	}
	return c.JSON(fiber.Map{"invoices": views})
}

func GetInvoice(c *fiber.Ctx) error {
	invoice, err := invoiceService(c).Get(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(viewOf(*invoice, time.Now().UTC()))
}

type UpdateInvoiceDetailsInput struct {
	IssueDate time.Time `json:"issue_date" validate:"required"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	Notes     *string   `json:"notes"`
	Terms     *string   `json:"terms"`
}

func UpdateInvoiceDetails(c *fiber.Ctx) error {
	var input UpdateInvoiceDetailsInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	invoice, err := invoiceService(c).UpdateDetails(c.Params("id"), currentBusiness(c), input.IssueDate, input.DueDate, input.Notes, input.Terms)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

type AddInvoiceItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Unit        string  `json:"unit"`
}

func AddInvoiceItem(c *fiber.Ctx) error {
	var input AddInvoiceItemInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	invoice, err := invoiceService(c).AddItem(c.Params("id"), currentBusiness(c), input.Description, input.Quantity, input.UnitPrice, input.Unit)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func RemoveInvoiceItem(c *fiber.Ctx) error {
	invoice, err := invoiceService(c).RemoveItem(c.Params("id"), currentBusiness(c), c.Params("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func SendInvoice(c *fiber.Ctx) error {
	svc := invoiceService(c)
	invoice, err := svc.Send(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(invoice)
}

func VoidInvoice(c *fiber.Ctx) error {
	svc := invoiceService(c)
	invoice, err := svc.Void(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(invoice)
}

type CreatePaymentInput struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Method     string  `json:"method" validate:"required"`
	ExternalId string  `json:"external_id"`
}

func CreatePayment(c *fiber.Ctx) error {
	var input CreatePaymentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	svc := invoiceService(c)
	invoice, err := svc.ApplyPayment(c.Params("id"), currentBusiness(c), input.Amount, input.Method, input.ExternalId)
	if err != nil {
		return err
	}
	middlewares.AddFacts(c, svc.Facts())
	return c.JSON(invoice)
}

func ListTransactions(c *fiber.Ctx) error {
	invoice, err := invoiceService(c).Get(c.Params("id"), currentBusiness(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": invoice.Transactions})
}

type AnnotateTransactionInput struct {
	Note string `json:"note" validate:"required"`
}

// AnnotateTransaction appends a note; transactions accept no other change
// and cannot be deleted.
func AnnotateTransaction(c *fiber.Ctx) error {
	var input AnnotateTransactionInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	transaction, err := invoiceService(c).AnnotateTransaction(c.Params("id"), currentBusiness(c), c.Params("txId"), input.Note)
	if err != nil {
		return err
	}
	return c.JSON(transaction)
}
