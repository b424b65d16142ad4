package models

import "gorm.io/gorm"

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}

// Product is a sellable catalogue item. Price is in integer currency units
// (no fractional subunit) and stock never goes negative.
type Product struct {
	gorm.Model
	Name       string   `gorm:"size:255;not null;index" json:"name"`
	Price      int64    `gorm:"not null;default:0"      json:"price"`
	Stock      int      `gorm:"not null;default:0"      json:"stock"`
	Image      string   `gorm:"size:512"                json:"image"`
	CategoryID uint     `gorm:"not null;index"          json:"category_id"`
	Category   Category `json:"category"`
}
