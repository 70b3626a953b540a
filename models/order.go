package models

import "time"

// Order totals are frozen at creation time from the cart. They are never
// recomputed afterwards; only the payment/delivery status fields mutate,
// and each flag moves false -> true exactly once.
type Order struct {
	ID              string        `gorm:"primaryKey" json:"id"`
	UserID          string        `gorm:"index;not null" json:"user_id"`
	User            User          `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string        `gorm:"not null" json:"payment_method"`
	ItemsPrice      string        `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice   string        `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice        string        `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice      string        `gorm:"type:numeric(12,2);not null" json:"total_price"`
	IsPaid          bool          `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time    `json:"paid_at"`
	IsDelivered     bool          `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt     *time.Time    `json:"delivered_at"`
	PaymentResult   PaymentResult `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result"`
	CreatedAt       time.Time     `json:"created_at"`
}

// OrderItem is an immutable copy of a CartItem taken at order creation.
type OrderItem struct {
	OrderID   string `gorm:"primaryKey" json:"-"`
	ProductID string `gorm:"primaryKey" json:"product_id"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null" json:"slug"`
	Image     string `json:"image"`
	Price     string `gorm:"type:numeric(12,2);not null" json:"price"`
	Qty       int    `gorm:"not null" json:"qty"`
}

// PaymentResult is the gateway transaction stored on the order. On
// gateway-order creation only ID is set; the remaining fields stay empty
// until the capture has been verified.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"price_paid"`
}
