package services

import (
	"time"

	"invoicing-backend/models"
)

// Store interfaces the services depend on. The gorm implementations live in
// the repository package; tests supply in-memory ones. Lookups return
// (nil, nil) when nothing matches so callers can distinguish absence from
// failure.

type PermissionStore interface {
	All() ([]models.Permission, error)
}

type RoleStore interface {
	FindById(id string) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	Create(role *models.Role) error
}

type TeamMemberStore interface {
	FindByUserAndBusiness(userId, businessId string) (*models.TeamMember, error)
	ListByBusiness(businessId string) ([]models.TeamMember, error)
	MemberEmails(businessId string) ([]string, error)
	Create(member *models.TeamMember) error
	Save(member *models.TeamMember) error
	Delete(member *models.TeamMember) error
}

type BusinessStore interface {
	FindById(id string) (*models.Business, error)
	// NameCountryTaken reports whether a non-deleted business other than
	// excludeId holds (name, country).
	NameCountryTaken(name, country, excludeId string) (bool, error)
	ListByUser(userId string) ([]models.Business, error)
	Create(business *models.Business) error
	Save(business *models.Business) error
}

type InvitationStore interface {
	FindByToken(token string) (*models.Invitation, error)
	ListByBusiness(businessId string) ([]models.Invitation, error)
	PendingExpiredBefore(now time.Time) ([]models.Invitation, error)
	Create(invitation *models.Invitation) error
	Save(invitation *models.Invitation) error
}

type UserStore interface {
	FindById(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error
}

type InvoiceStore interface {
	// FindById loads the aggregate with items and transactions, scoped to
	// the business.
	FindById(id, businessId string) (*models.Invoice, error)
	ListByBusiness(businessId string) ([]models.Invoice, error)
	NumberTaken(businessId, invoiceNumber string) (bool, error)
	Create(invoice *models.Invoice) error
	Save(invoice *models.Invoice) error
	AddItem(item *models.InvoiceItem) error
	DeleteItem(invoiceId, itemId string) error
	AddTransaction(transaction *models.Transaction) error
	SaveTransaction(transaction *models.Transaction) error
	FindTransaction(invoiceId, transactionId string) (*models.Transaction, error)
}
