package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoicing-backend/utils"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"

	// InvoiceOverdue is a query-time classification of a sent invoice past
	// its due date, never stored.
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Invoice owns its items and transactions; both are only reachable through
// the methods below so totals can always be recomputed from scratch.
type Invoice struct {
	Id            string `json:"id" gorm:"primaryKey"`
	BusinessId    string `json:"business_id" gorm:"not null;uniqueIndex:idx_invoices_business_number"`
	ClientId      string `json:"client_id" gorm:"index"`
	InvoiceNumber string `json:"invoice_number" gorm:"not null;uniqueIndex:idx_invoices_business_number"`

	IssueDate time.Time     `json:"issue_date"`
	DueDate   time.Time     `json:"due_date"`
	Currency  string        `json:"currency" gorm:"not null"`
	Status    InvoiceStatus `json:"status" gorm:"not null"`

	SubTotal   float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	Tax        float64 `json:"tax" gorm:"type:numeric(12,2)"`
	Total      float64 `json:"total" gorm:"type:numeric(12,2)"`
	AmountPaid float64 `json:"amount_paid" gorm:"type:numeric(12,2)"`

	// Rate captured from the business at creation time; recalculation always
	// recomputes with it from scratch.
	TaxRate float64 `json:"tax_rate"`

	Items        []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE"`
	Transactions []Transaction `json:"transactions" gorm:"foreignKey:InvoiceId"`

	Notes string `json:"notes"`
	Terms string `json:"terms"`

	CreatedAt time.Time `json:"created_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if invoice.Id == "" {
		invoice.Id = uuid.NewString()
	}
	return
}

// InvoiceItem is a line item. Its total is computed once at creation and
// never changes; the only edit is remove-and-re-add.
type InvoiceItem struct {
	Id          string  `json:"id" gorm:"primaryKey"`
	InvoiceId   string  `json:"-" gorm:"index;not null"`
	Description string  `json:"description" gorm:"not null"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	Unit        string  `json:"unit"`
	Total       float64 `json:"total" gorm:"type:numeric(12,2)"`
}

func (item *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	return
}

// Transaction is an append-only payment record. There is deliberately no
// delete operation anywhere; the sole mutation is appending a note.
type Transaction struct {
	Id         string    `json:"id" gorm:"primaryKey"`
	InvoiceId  string    `json:"-" gorm:"index;not null"`
	Amount     float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Date       time.Time `json:"date"`
	Method     string    `json:"method"`
	ExternalId string    `json:"external_id"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.Id == "" {
		transaction.Id = uuid.NewString()
	}
	return
}

// AppendNote adds an annotation without touching the financial fields.
func (transaction *Transaction) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if transaction.Notes == "" {
		transaction.Notes = note
		return
	}
	transaction.Notes = transaction.Notes + "\n" + note
}

// NewInvoice creates a draft with zeroed totals, issued now and due in 30
// days. The owning business must currently be able to invoice.
func NewInvoice(business *Business, clientId, invoiceNumber, currency string) (*Invoice, error) {
	if !business.CanCreateInvoices() {
		return nil, invalidStateErr("business %s is not active", business.Id)
	}
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if invoiceNumber == "" {
		return nil, validationErr("invoice number is required")
	}
	if currency == "" {
		return nil, validationErr("currency is required")
	}
	now := time.Now().UTC()
	return &Invoice{
		BusinessId:    business.Id,
		ClientId:      clientId,
		InvoiceNumber: invoiceNumber,
		Currency:      currency,
		Status:        InvoiceDraft,
		IssueDate:     now,
		DueDate:       now.Add(30 * 24 * time.Hour),
		TaxRate:       business.EffectiveTaxRate(),
	}, nil
}

// UpdateDetails replaces dates, notes and terms. The issue date may not lie
// in the past, compared date-only against the current UTC date.
func (invoice *Invoice) UpdateDetails(issueDate, dueDate time.Time, notes, terms *string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if issueDate.UTC().Truncate(24 * time.Hour).Before(today) {
		return validationErr("issue date cannot be in the past")
	}
	if dueDate.Before(issueDate) {
		return validationErr("due date cannot precede the issue date")
	}
	invoice.IssueDate = issueDate.UTC()
	invoice.DueDate = dueDate.UTC()
	if notes != nil {
		invoice.Notes = strings.TrimSpace(*notes)
	}
	if terms != nil {
		invoice.Terms = strings.TrimSpace(*terms)
	}
	return nil
}

// AddItem appends a line to a draft and recalculates. Validation runs before
// any mutation so a rejected call leaves the invoice untouched.
func (invoice *Invoice) AddItem(description string, quantity, unitPrice float64, unit string) (*InvoiceItem, error) {
	if invoice.Status != InvoiceDraft {
		return nil, invalidStateErr("items can only be added to a draft invoice")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, validationErr("item description is required")
	}
	if quantity <= 0 {
		return nil, validationErr("item quantity must be positive")
	}
	if unitPrice < 0 {
		return nil, validationErr("item unit price cannot be negative")
	}
	item := InvoiceItem{
		Id:          uuid.NewString(),
		InvoiceId:   invoice.Id,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   utils.Round2(unitPrice),
		Unit:        strings.TrimSpace(unit),
		Total:       utils.Round2(quantity * unitPrice),
	}
	invoice.Items = append(invoice.Items, item)
	invoice.Recalculate()
	return &invoice.Items[len(invoice.Items)-1], nil
}

// RemoveItem drops a line from a draft and recalculates. An unknown item id
// is a no-op.
func (invoice *Invoice) RemoveItem(itemId string) error {
	if invoice.Status != InvoiceDraft {
		return invalidStateErr("items can only be removed from a draft invoice")
	}
	for i, item := range invoice.Items {
		if item.Id == itemId {
			invoice.Items = append(invoice.Items[:i], invoice.Items[i+1:]...)
			invoice.Recalculate()
			return nil
		}
	}
	return nil
}

// Recalculate recomputes all totals from the item list. Always from scratch,
// never incrementally, so repeated calls are idempotent.
func (invoice *Invoice) Recalculate() {
	var subTotal float64
	for _, item := range invoice.Items {
		subTotal += item.Total
	}
	invoice.SubTotal = utils.Round2(subTotal)
	invoice.Tax = utils.Round2(invoice.SubTotal * invoice.TaxRate)
	invoice.Total = utils.Round2(invoice.SubTotal + invoice.Tax)
}

// MarkAsSent transitions Draft to Sent. A draft with no items cannot be sent;
// on any other status the call is a silent no-op.
func (invoice *Invoice) MarkAsSent() error {
	if invoice.Status != InvoiceDraft {
		return nil
	}
	if len(invoice.Items) == 0 {
		return invalidStateErr("an invoice with no items cannot be sent")
	}
	invoice.Status = InvoiceSent
	return nil
}

// ApplyPayment appends an immutable transaction and rolls the paid amount
// forward; reaching the total flips the invoice to Paid, which never reverts.
// Overpayment is allowed.
func (invoice *Invoice) ApplyPayment(amount float64, method, externalId string) (*Transaction, error) {
	if invoice.Status == InvoicePaid || invoice.Status == InvoiceVoid {
		return nil, invalidStateErr("cannot record a payment on a %s invoice", invoice.Status)
	}
	if amount <= 0 {
		return nil, validationErr("payment amount must be positive")
	}
	transaction := Transaction{
		Id:         uuid.NewString(),
		InvoiceId:  invoice.Id,
		Amount:     utils.Round2(amount),
		Date:       time.Now().UTC(),
		Method:     strings.TrimSpace(method),
		ExternalId: strings.TrimSpace(externalId),
	}
	invoice.Transactions = append(invoice.Transactions, transaction)
	invoice.AmountPaid = utils.Round2(invoice.AmountPaid + transaction.Amount)
	if invoice.AmountPaid >= invoice.Total {
		invoice.Status = InvoicePaid
	}
	return &invoice.Transactions[len(invoice.Transactions)-1], nil
}

// Void cancels the invoice. Paid invoices are permanent and cannot be voided.
func (invoice *Invoice) Void() error {
	if invoice.Status == InvoicePaid {
		return invalidStateErr("a paid invoice cannot be voided")
	}
	invoice.Status = InvoiceVoid
	return nil
}

// EffectiveStatus classifies a sent invoice past its due date as overdue.
// The stored status is untouched.
func (invoice *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if invoice.Status == InvoiceSent && now.After(invoice.DueDate) {
		return InvoiceOverdue
	}
	return invoice.Status
}
