package services

import (
	"fmt"
	"time"

	"invoicing-backend/models"
)

// InvoiceService loads the aggregate, applies one command through its
// methods and mirrors the outcome to the store. The per-request transaction
// around each call keeps recalculation and transition atomic.
type InvoiceService struct {
	Invoices   InvoiceStore
	Businesses BusinessStore

	facts []Fact
}

func (s *InvoiceService) Facts() []Fact {
	out := s.facts
	s.facts = nil
	return out
}

func (s *InvoiceService) record(name string, payload map[string]any) {
	s.facts = append(s.facts, Fact{Name: name, Payload: payload})
}

func (s *InvoiceService) Create(businessId, clientId, invoiceNumber, currency string) (*models.Invoice, error) {
	business, err := s.Businesses.FindById(businessId)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("%w: business %s", models.ErrNotFound, businessId)
	}
	invoice, err := models.NewInvoice(business, clientId, invoiceNumber, currency)
	if err != nil {
		return nil, err
	}
	taken, err := s.Invoices.NumberTaken(businessId, invoice.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: invoice number %s already used", models.ErrConflict, invoice.InvoiceNumber)
	}
	if err := s.Invoices.Create(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) get(id, businessId string) (*models.Invoice, error) {
	invoice, err := s.Invoices.FindById(id, businessId)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", models.ErrNotFound, id)
	}
	return invoice, nil
}

func (s *InvoiceService) Get(id, businessId string) (*models.Invoice, error) {
	return s.get(id, businessId)
}

func (s *InvoiceService) List(businessId string) ([]models.Invoice, error) {
	return s.Invoices.ListByBusiness(businessId)
}

func (s *InvoiceService) UpdateDetails(id, businessId string, issueDate, dueDate time.Time, notes, terms *string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	if err := invoice.UpdateDetails(issueDate, dueDate, notes, terms); err != nil {
		return nil, err
	}
	return invoice, s.Invoices.Save(invoice)
}

func (s *InvoiceService) AddItem(id, businessId, description string, quantity, unitPrice float64, unit string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	item, err := invoice.AddItem(description, quantity, unitPrice, unit)
	if err != nil {
		return nil, err
	}
	if err := s.Invoices.AddItem(item); err != nil {
		return nil, err
	}
	return invoice, s.Invoices.Save(invoice)
}

func (s *InvoiceService) RemoveItem(id, businessId, itemId string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	before := len(invoice.Items)
	if err := invoice.RemoveItem(itemId); err != nil {
		return nil, err
	}
	if len(invoice.Items) == before {
		// unknown item id, nothing changed
		return invoice, nil
	}
	if err := s.Invoices.DeleteItem(invoice.Id, itemId); err != nil {
		return nil, err
	}
	return invoice, s.Invoices.Save(invoice)
}

func (s *InvoiceService) Send(id, businessId string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	wasDraft := invoice.Status == models.InvoiceDraft
	if err := invoice.MarkAsSent(); err != nil {
		return nil, err
	}
	if !wasDraft {
		return invoice, nil
	}
	if err := s.Invoices.Save(invoice); err != nil {
		return nil, err
	}
	s.record("invoice.sent", map[string]any{"invoice_id": invoice.Id, "business_id": businessId})
	return invoice, nil
}

func (s *InvoiceService) Void(id, businessId string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(); err != nil {
		return nil, err
	}
	if err := s.Invoices.Save(invoice); err != nil {
		return nil, err
	}
	s.record("invoice.voided", map[string]any{"invoice_id": invoice.Id, "business_id": businessId})
	return invoice, nil
}

func (s *InvoiceService) ApplyPayment(id, businessId string, amount float64, method, externalId string) (*models.Invoice, error) {
	invoice, err := s.get(id, businessId)
	if err != nil {
		return nil, err
	}
	transaction, err := invoice.ApplyPayment(amount, method, externalId)
	if err != nil {
		return nil, err
	}
	if err := s.Invoices.AddTransaction(transaction); err != nil {
		return nil, err
	}
	if err := s.Invoices.Save(invoice); err != nil {
		return nil, err
	}
	s.record("invoice.payment_recorded", map[string]any{
		"invoice_id":     invoice.Id,
		"business_id":    businessId,
		"transaction_id": transaction.Id,
		"amount":         transaction.Amount,
	})
	if invoice.Status == models.InvoicePaid {
		s.record("invoice.paid", map[string]any{"invoice_id": invoice.Id, "business_id": businessId})
	}
	return invoice, nil
}

// AnnotateTransaction appends a note to a payment record, the only mutation
// a transaction ever accepts.
func (s *InvoiceService) AnnotateTransaction(invoiceId, businessId, transactionId, note string) (*models.Transaction, error) {
	invoice, err := s.get(invoiceId, businessId)
	if err != nil {
		return nil, err
	}
	transaction, err := s.Invoices.FindTransaction(invoice.Id, transactionId)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, fmt.Errorf("%w: transaction %s", models.ErrNotFound, transactionId)
	}
	transaction.AppendNote(note)
	return transaction, s.Invoices.SaveTransaction(transaction)
}
