package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoicing-backend/models"
)

// Store bundles the gorm-backed implementations of the service ports. Build
// one per request from the request's transaction so every use case is
// all-or-nothing.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFoundIsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// ---- permissions

func (s *Store) All() ([]models.Permission, error) {
	var permissions []models.Permission
	if err := s.db.Order("name").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// ---- roles

func (s *Store) FindRoleById(id string) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &role, nil
}

func (s *Store) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &role, nil
}

func (s *Store) CreateRole(role *models.Role) error {
	return s.db.Create(role).Error
}

// Roles adapts the store to the role port.
type Roles struct{ *Store }

func (r Roles) FindById(id string) (*models.Role, error)     { return r.FindRoleById(id) }
func (r Roles) FindByName(name string) (*models.Role, error) { return r.FindRoleByName(name) }
func (r Roles) Create(role *models.Role) error               { return r.CreateRole(role) }

// ---- team members

type Members struct{ *Store }

func (m Members) FindByUserAndBusiness(userId, businessId string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := m.db.Preload("Role.Permissions").Preload("User").
		Where("user_id = ? AND business_id = ?", userId, businessId).
		First(&member).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &member, nil
}

func (m Members) ListByBusiness(businessId string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := m.db.Preload("Role").Preload("User").
		Where("business_id = ?", businessId).
		Find(&members).Error
	return members, err
}

func (m Members) MemberEmails(businessId string) ([]string, error) {
	var emails []string
	err := m.db.Model(&models.TeamMember{}).
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.business_id = ?", businessId).
		Pluck("users.email", &emails).Error
	return emails, err
}

func (m Members) Create(member *models.TeamMember) error {
	return m.db.Omit(clause.Associations).Create(member).Error
}

func (m Members) Save(member *models.TeamMember) error {
	return m.db.Omit(clause.Associations).Save(member).Error
}

func (m Members) Delete(member *models.TeamMember) error {
	return m.db.Delete(member).Error
}

// ---- businesses

type Businesses struct{ *Store }

func (b Businesses) FindById(id string) (*models.Business, error) {
	var business models.Business
	err := b.db.Where("id = ?", id).First(&business).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &business, nil
}

// NameCountryTaken only counts non-deleted rows: soft-deleted businesses
// release their (name, country) pair.
func (b Businesses) NameCountryTaken(name, country, excludeId string) (bool, error) {
	var count int64
	q := b.db.Model(&models.Business{}).
		Where("name = ? AND country = ? AND is_deleted = ?", name, country, false)
	if excludeId != "" {
		q = q.Where("id <> ?", excludeId)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (b Businesses) ListByUser(userId string) ([]models.Business, error) {
	var businesses []models.Business
	err := b.db.
		Joins("JOIN team_members ON team_members.business_id = businesses.id").
		Where("team_members.user_id = ? AND businesses.is_deleted = ?", userId, false).
		Find(&businesses).Error
	return businesses, err
}

func (b Businesses) Create(business *models.Business) error {
	return b.db.Create(business).Error
}

func (b Businesses) Save(business *models.Business) error {
	return b.db.Omit(clause.Associations).Save(business).Error
}

// ---- invitations

type Invitations struct{ *Store }

func (i Invitations) FindByToken(token string) (*models.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var invitation models.Invitation
	err := i.db.Where("token = ?", token).First(&invitation).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &invitation, nil
}

func (i Invitations) ListByBusiness(businessId string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := i.db.Where("business_id = ?", businessId).Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

func (i Invitations) PendingExpiredBefore(now time.Time) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := i.db.
		Where("status = ? AND expiry_date < ?", models.InvitationPending, now).
		Find(&invitations).Error
	return invitations, err
}

func (i Invitations) Create(invitation *models.Invitation) error {
	return i.db.Create(invitation).Error
}

func (i Invitations) Save(invitation *models.Invitation) error {
	return i.db.Save(invitation).Error
}

// ---- users

type Users struct{ *Store }

func (u Users) FindById(id string) (*models.User, error) {
	var user models.User
	err := u.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

func (u Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := u.db.Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &user, nil
}

func (u Users) Create(user *models.User) error {
	return u.db.Create(user).Error
}

// ---- invoices

type Invoices struct{ *Store }

func (i Invoices) FindById(id, businessId string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := i.db.Preload("Items").Preload("Transactions").
		Where("id = ? AND business_id = ?", id, businessId).
		First(&invoice).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &invoice, nil
}

func (i Invoices) ListByBusiness(businessId string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := i.db.Preload("Items").Preload("Transactions").
		Where("business_id = ?", businessId).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (i Invoices) NumberTaken(businessId, invoiceNumber string) (bool, error) {
	var count int64
	err := i.db.Model(&models.Invoice{}).
		Where("business_id = ? AND invoice_number = ?", businessId, invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

func (i Invoices) Create(invoice *models.Invoice) error {
	return i.db.Create(invoice).Error
}

func (i Invoices) Save(invoice *models.Invoice) error {
	return i.db.Omit(clause.Associations).Save(invoice).Error
}

func (i Invoices) AddItem(item *models.InvoiceItem) error {
	return i.db.Create(item).Error
}

func (i Invoices) DeleteItem(invoiceId, itemId string) error {
	return i.db.Where("invoice_id = ? AND id = ?", invoiceId, itemId).
		Delete(&models.InvoiceItem{}).Error
}

func (i Invoices) AddTransaction(transaction *models.Transaction) error {
	return i.db.Create(transaction).Error
}

func (i Invoices) SaveTransaction(transaction *models.Transaction) error {
	return i.db.Save(transaction).Error
}

func (i Invoices) FindTransaction(invoiceId, transactionId string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := i.db.Where("invoice_id = ? AND id = ?", invoiceId, transactionId).
		First(&transaction).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &transaction, nil
}

// ---- clients

type Clients struct{ *Store }

func (c Clients) FindById(id, businessId string) (*models.Client, error) {
	var client models.Client
	err := c.db.Where("id = ? AND business_id = ?", id, businessId).First(&client).Error
	if err != nil {
		return nil, notFoundIsNil(err)
	}
	return &client, nil
}

func (c Clients) ListByBusiness(businessId string) ([]models.Client, error) {
	var clients []models.Client
	err := c.db.Where("business_id = ?", businessId).Order("company_name").Find(&clients).Error
	return clients, err
}

func (c Clients) Create(client *models.Client) error {
	return c.db.Create(client).Error
}

func (c Clients) Updates(client *models.Client, updates map[string]any) error {
	return c.db.Model(client).Updates(updates).Error
}
