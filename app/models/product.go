package models

import "gorm.io/gorm"

// Product is one catalog entry. Stock is decremented as a side effect of
// recording sales; nothing stops it from going negative (see StockService).
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
}
