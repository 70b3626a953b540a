package models

import "time"

type Product struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Slug        string   `gorm:"uniqueIndex;not null" json:"slug"`
	Category    string   `gorm:"index" json:"category"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Images      []string `gorm:"serializer:json" json:"images"`
	Price       string   `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int      `gorm:"not null;default:0" json:"stock"`
	Rating      string   `gorm:"type:numeric(3,2);default:0" json:"rating"`
	NumReviews  int      `gorm:"default:0" json:"num_reviews"`
	IsFeatured  bool     `gorm:"default:false" json:"is_featured"`
	Banner      *string  `json:"banner"`
	CreatedAt   time.Time `json:"created_at"`
}
