package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultTaxRate applies to businesses that never configured a jurisdiction
// rate.
const DefaultTaxRate = 0.10

// Business is the tenant aggregate root. Clients, invoices, team members and
// invitations all hang off its id. Deletion is always soft: the row and every
// child row survive, hidden from normal queries.
type Business struct {
	Id        string     `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null;index:idx_businesses_name_country"`
	Country   string     `json:"country" gorm:"not null;index:idx_businesses_name_country"`
	OwnerId   string     `json:"owner_id" gorm:"not null;index"`
	IsActive  bool       `json:"is_active"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`

	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`

	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`

	LogoUrl       string         `json:"logo_url"`
	ThemeSettings datatypes.JSON `json:"theme_settings" gorm:"type:jsonb"`

	// Jurisdiction tax rate applied to invoices created for this business.
	TaxRate float64 `json:"tax_rate"`

	CreatedAt time.Time `json:"created_at"`
}

func (business *Business) BeforeCreate(tx *gorm.DB) (err error) {
	if business.Id == "" {
		business.Id = uuid.NewString()
	}
	return
}

// NewBusiness builds an active, non-deleted business with empty theme
// settings. Uniqueness of (name, country) is the caller's check.
func NewBusiness(name, ownerId, country string) (*Business, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	if name == "" {
		return nil, validationErr("business name is required")
	}
	if country == "" {
		return nil, validationErr("country is required")
	}
	return &Business{
		Name:          name,
		Country:       country,
		OwnerId:       ownerId,
		IsActive:      true,
		ThemeSettings: datatypes.JSON([]byte(`{}`)),
		TaxRate:       DefaultTaxRate,
	}, nil
}

// UpdateDetails replaces contact fields. Nil pointers leave a field as is.
func (business *Business) UpdateDetails(name string, email, phone, website *string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationErr("business name is required")
	}
	business.Name = name
	if email != nil {
		business.Email = strings.TrimSpace(*email)
	}
	if phone != nil {
		business.Phone = strings.TrimSpace(*phone)
	}
	if website != nil {
		business.Website = strings.TrimSpace(*website)
	}
	return nil
}

func (business *Business) UpdateAddress(street, city, state, zip, country string) error {
	country = strings.TrimSpace(country)
	if country == "" {
		return validationErr("country is required")
	}
	business.Street = strings.TrimSpace(street)
	business.City = strings.TrimSpace(city)
	business.State = strings.TrimSpace(state)
	business.Zip = strings.TrimSpace(zip)
	business.Country = country
	return nil
}

// UpdateBranding validates the theme payload before touching anything.
func (business *Business) UpdateBranding(logoUrl *string, themeSettings string) error {
	if !json.Valid([]byte(themeSettings)) {
		return validationErr("theme settings must be valid JSON")
	}
	if logoUrl != nil {
		business.LogoUrl = strings.TrimSpace(*logoUrl)
	}
	business.ThemeSettings = datatypes.JSON([]byte(themeSettings))
	return nil
}

func (business *Business) Activate() {
	business.IsActive = true
}

func (business *Business) Deactivate() {
	business.IsActive = false
}

// Delete soft-deletes: deactivate, flag, timestamp. Never removes rows.
func (business *Business) Delete() {
	now := time.Now().UTC()
	business.IsActive = false
	business.IsDeleted = true
	business.DeletedAt = &now
}

// Restore clears the deletion flags and reactivates. nameCountryTaken reports
// whether another non-deleted business now holds the same (name, country).
func (business *Business) Restore(nameCountryTaken bool) error {
	if !business.IsDeleted {
		return invalidStateErr("business %s is not deleted", business.Id)
	}
	if nameCountryTaken {
		return conflictErr("another business named %q already exists in %s", business.Name, business.Country)
	}
	business.IsDeleted = false
	business.DeletedAt = nil
	business.IsActive = true
	return nil
}

func (business *Business) CanCreateInvoices() bool {
	return business.IsActive && !business.IsDeleted
}

// EffectiveTaxRate falls back to the default when no rate was ever set.
func (business *Business) EffectiveTaxRate() float64 {
	if business.TaxRate <= 0 {
		return DefaultTaxRate
	}
	return business.TaxRate
}
