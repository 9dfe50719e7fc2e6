package models

import "github.com/shopspring/decimal"

// Option is a single selectable catalog entry within a category.
// Prices are stored as exact decimals; float conversion happens only at
// display formatting.
type Option struct {
	Base
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Label       string          `gorm:"not null" json:"label"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	SKU         string          `json:"sku"`
	ImageURL    string          `json:"image_url"`
	IsDefault   bool            `gorm:"default:false" json:"is_default"`

	// Relationships
	Rules []OptionRule `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"rules,omitempty"`
}
