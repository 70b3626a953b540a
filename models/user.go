package models

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Supported payment methods
const (
	PaymentMethodPayPal         = "Paypal"
	PaymentMethodCreditCard     = "CreditCard"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

type User struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Role          string    `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	Address       Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PaymentMethod string    `json:"payment_method"`
	Cart          *Cart     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders        []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// Address is embedded in User and snapshotted onto each Order at creation.
type Address struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// HasShippingAddress reports whether the user completed the address step.
func (a Address) HasShippingAddress() bool {
	return a.FullName != "" && a.StreetAddress != "" && a.City != "" &&
		a.PostalCode != "" && a.Country != ""
}
