package repositories

import (
	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/models"
)

// SaleRepository handles database operations for Sale and its items.
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// All returns every sale with its items, newest first.
func (r *SaleRepository) All() ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.Preload("Items").Preload("Items.Product").Order("id DESC").Find(&sales).Error
	return sales, err
}

// FindByID loads one sale with its items.
func (r *SaleRepository) FindByID(id uint) (models.Sale, error) {
	var sale models.Sale
	err := r.db.Preload("Items").First(&sale, id).Error
	return sale, err
}

// DeleteWithItems removes the sale and all its line items in one
// transaction. The explicit item delete covers engines that ignore the
// foreign-key cascade (SQLite without pragma, for one).
func (r *SaleRepository) DeleteWithItems(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sale{}, id).Error
	})
}
