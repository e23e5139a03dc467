package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"invoicing-backend/models"
)

// In-memory implementations of the store ports, enough for the use-case
// tests to run without a database.

type memStores struct {
	permissions []models.Permission
	roles       map[string]*models.Role
	members     map[string]*models.TeamMember
	businesses  map[string]*models.Business
	invitations map[string]*models.Invitation
	users       map[string]*models.User
	invoices    map[string]*models.Invoice
}

func newMemStores() *memStores {
	m := &memStores{
		roles:       map[string]*models.Role{},
		members:     map[string]*models.TeamMember{},
		businesses:  map[string]*models.Business{},
		invitations: map[string]*models.Invitation{},
		users:       map[string]*models.User{},
		invoices:    map[string]*models.Invoice{},
	}
	for _, permission := range models.PermissionCatalog {
		p := permission
		p.Id = uuid.NewString()
		m.permissions = append(m.permissions, p)
	}
	return m
}

func (m *memStores) addUser(email string) *models.User {
	user := &models.User{Id: uuid.NewString(), Email: email, FirstName: "Test", LastName: "User"}
	m.users[user.Id] = user
	return user
}

// ---- PermissionStore

type memPermissions struct{ m *memStores }

func (s memPermissions) All() ([]models.Permission, error) {
	return append([]models.Permission(nil), s.m.permissions...), nil
}

// ---- RoleStore

type memRoles struct{ m *memStores }

func (s memRoles) FindById(id string) (*models.Role, error) {
	return s.m.roles[id], nil
}

func (s memRoles) FindByName(name string) (*models.Role, error) {
	for _, role := range s.m.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (s memRoles) Create(role *models.Role) error {
	if role.Id == "" {
		role.Id = uuid.NewString()
	}
	s.m.roles[role.Id] = role
	return nil
}

// ---- TeamMemberStore

type memMembers struct{ m *memStores }

func (s memMembers) FindByUserAndBusiness(userId, businessId string) (*models.TeamMember, error) {
	for _, member := range s.m.members {
		if member.UserId == userId && member.BusinessId == businessId {
			return member, nil
		}
	}
	return nil, nil
}

func (s memMembers) ListByBusiness(businessId string) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, member := range s.m.members {
		if member.BusinessId == businessId {
			out = append(out, *member)
		}
	}
	return out, nil
}

func (s memMembers) MemberEmails(businessId string) ([]string, error) {
	var out []string
	for _, member := range s.m.members {
		if member.BusinessId != businessId {
			continue
		}
		if user, ok := s.m.users[member.UserId]; ok {
			out = append(out, user.Email)
		}
	}
	return out, nil
}

func (s memMembers) Create(member *models.TeamMember) error {
	if member.Id == "" {
		member.Id = uuid.NewString()
	}
	s.m.members[member.Id] = member
	return nil
}

func (s memMembers) Save(member *models.TeamMember) error {
	s.m.members[member.Id] = member
	return nil
}

func (s memMembers) Delete(member *models.TeamMember) error {
	delete(s.m.members, member.Id)
	return nil
}

// ---- BusinessStore

type memBusinesses struct{ m *memStores }

func (s memBusinesses) FindById(id string) (*models.Business, error) {
	return s.m.businesses[id], nil
}

func (s memBusinesses) NameCountryTaken(name, country, excludeId string) (bool, error) {
	for _, business := range s.m.businesses {
		if business.Id == excludeId || business.IsDeleted {
			continue
		}
		if business.Name == name && business.Country == country {
			return true, nil
		}
	}
	return false, nil
}

func (s memBusinesses) ListByUser(userId string) ([]models.Business, error) {
	var out []models.Business
	for _, member := range s.m.members {
		if member.UserId != userId {
			continue
		}
		if business, ok := s.m.businesses[member.BusinessId]; ok && !business.IsDeleted {
			out = append(out, *business)
		}
	}
	return out, nil
}

func (s memBusinesses) Create(business *models.Business) error {
	if business.Id == "" {
		business.Id = uuid.NewString()
	}
	s.m.businesses[business.Id] = business
	return nil
}

func (s memBusinesses) Save(business *models.Business) error {
	s.m.businesses[business.Id] = business
	return nil
}

// ---- InvitationStore

type memInvitations struct{ m *memStores }

func (s memInvitations) FindByToken(token string) (*models.Invitation, error) {
	for _, invitation := range s.m.invitations {
		if invitation.Token == token {
			return invitation, nil
		}
	}
	return nil, nil
}

func (s memInvitations) ListByBusiness(businessId string) ([]models.Invitation, error) {
	var out []models.Invitation
	for _, invitation := range s.m.invitations {
		if invitation.BusinessId == businessId {
			out = append(out, *invitation)
		}
	}
	return out, nil
}

func (s memInvitations) PendingExpiredBefore(now time.Time) ([]models.Invitation, error) {
	var out []models.Invitation
	for _, invitation := range s.m.invitations {
		if invitation.Status == models.InvitationPending && invitation.ExpiryDate.Before(now) {
			out = append(out, *invitation)
		}
	}
	return out, nil
}

func (s memInvitations) Create(invitation *models.Invitation) error {
	if invitation.Id == "" {
		invitation.Id = uuid.NewString()
	}
	s.m.invitations[invitation.Id] = invitation
	return nil
}

func (s memInvitations) Save(invitation *models.Invitation) error {
	stored := *invitation
	s.m.invitations[invitation.Id] = &stored
	return nil
}

// ---- UserStore

type memUsers struct{ m *memStores }

func (s memUsers) FindById(id string) (*models.User, error) {
	return s.m.users[id], nil
}

func (s memUsers) FindByEmail(email string) (*models.User, error) {
	for _, user := range s.m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, nil
}

func (s memUsers) Create(user *models.User) error {
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	s.m.users[user.Id] = user
	return nil
}

// ---- InvoiceStore

type memInvoices struct{ m *memStores }

func (s memInvoices) FindById(id, businessId string) (*models.Invoice, error) {
	invoice, ok := s.m.invoices[id]
	if !ok || invoice.BusinessId != businessId {
		return nil, nil
	}
	return invoice, nil
}

func (s memInvoices) ListByBusiness(businessId string) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, invoice := range s.m.invoices {
		if invoice.BusinessId == businessId {
			out = append(out, *invoice)
		}
	}
	return out, nil
}

func (s memInvoices) NumberTaken(businessId, invoiceNumber string) (bool, error) {
	for _, invoice := range s.m.invoices {
		if invoice.BusinessId == businessId && invoice.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s memInvoices) Create(invoice *models.Invoice) error {
	if invoice.Id == "" {
		invoice.Id = uuid.NewString()
	}
	s.m.invoices[invoice.Id] = invoice
	return nil
}

func (s memInvoices) Save(invoice *models.Invoice) error {
	s.m.invoices[invoice.Id] = invoice
	return nil
}

func (s memInvoices) AddItem(item *models.InvoiceItem) error      { return nil }
func (s memInvoices) DeleteItem(invoiceId, itemId string) error   { return nil }
func (s memInvoices) AddTransaction(t *models.Transaction) error  { return nil }
func (s memInvoices) SaveTransaction(t *models.Transaction) error { return nil }
func (s memInvoices) FindTransaction(invoiceId, transactionId string) (*models.Transaction, error) {
	invoice, ok := s.m.invoices[invoiceId]
	if !ok {
		return nil, nil
	}
	for i := range invoice.Transactions {
		if invoice.Transactions[i].Id == transactionId {
			return &invoice.Transactions[i], nil
		}
	}
	return nil, nil
}
