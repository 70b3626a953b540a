package models

import "time"

// Cart belongs to exactly one identity at a time: a signed-in user or an
// anonymous cart session. The four totals are a derived cache of Items and
// are recomputed on every mutation before persisting.
type Cart struct {
	ID            string     `gorm:"primaryKey" json:"id"`
	UserID        *string    `gorm:"uniqueIndex" json:"user_id"`
	SessionCartID string     `gorm:"index" json:"session_cart_id"`
	Items         []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	ItemsPrice    string     `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice string     `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice      string     `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice    string     `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CartItem is a price snapshot of a product; at most one line per product.
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	CartID    string `gorm:"index;uniqueIndex:idx_cart_product" json:"-"`
	ProductID string `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null" json:"slug"`
	Image     string `json:"image"`
	Price     string `gorm:"type:numeric(12,2);not null" json:"price"`
	Qty       int    `gorm:"not null" json:"qty"`
}

// CartPrices carries the four derived totals as fixed-2-decimal strings.
type CartPrices struct {
	ItemsPrice    string `json:"items_price"`
	ShippingPrice string `json:"shipping_price"`
	TaxPrice      string `json:"tax_price"`
	TotalPrice    string `json:"total_price"`
}
