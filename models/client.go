package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a billing recipient owned by one business.
type Client struct {
	Id          string `json:"id" gorm:"primaryKey"`
	BusinessId  string `json:"business_id" gorm:"not null;index"`
	CompanyName string `json:"company_name" gorm:"not null"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" gorm:"not null"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
	Active      bool   `json:"-"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if client.Id == "" {
		client.Id = uuid.NewString()
	}
	return
}

func NewClient(businessId, companyName, email string) (*Client, error) {
	companyName = strings.TrimSpace(companyName)
	email = strings.TrimSpace(email)
	if companyName == "" {
		return nil, validationErr("client company name is required")
	}
	if email == "" {
		return nil, validationErr("client email is required")
	}
	return &Client{BusinessId: businessId, CompanyName: companyName, Email: email, Active: true}, nil
}
