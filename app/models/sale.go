package models

import (
	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/pkg/collection"
)

// Sale is the aggregate root of one sales transaction. It exclusively owns
// its Items: deleting a Sale deletes them too.
type Sale struct {
	gorm.Model
	Title     string     `gorm:"size:255;not null" json:"title"`
	ImagePath string     `gorm:"size:512" json:"image_path"`
	Items     []SaleItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// SaleItem is one product line inside a sale. UnitPrice snapshots the
// product's price at sale time, so later price changes don't rewrite
// history. The Product reference is non-owning.
type SaleItem struct {
	gorm.Model
	SaleID    uint    `gorm:"not null;index" json:"sale_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`

	Product Product `json:"product,omitempty"`
}

// Total returns the sale's value summed over its items.
func (s Sale) Total() float64 {
	return collection.SumBy(s.Items, func(it SaleItem) float64 {
		return float64(it.Quantity) * it.UnitPrice
	})
}
