package services

import (
	"io"
	"path"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/config"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/metrics"
	"github.com/mgiraldo/almacen/pkg/storage"
)

// SaleLine is one (product, quantity) pair from the add-sale form, parsed
// out of the cantidad_<id> fields before any processing happens.
type SaleLine struct {
	ProductID uint
	Quantity  int
}

// SaleInput is the structured add-sale submission.
type SaleInput struct {
	Title     string
	ImageName string    // original filename, empty when no upload
	Image     io.Reader // nil when no upload
	Lines     []SaleLine
}

// SaleService records sales: header, line items with a price snapshot, and
// the stock decrement, all in one transaction.
//
// Known gaps carried on purpose: product rows are not locked, so two
// concurrent sales of the same product can lose one decrement; quantities
// above the available stock drive it negative (logged, not rejected); and
// resubmitting a form records a second sale.
type SaleService struct {
	db    *gorm.DB
	sales *repositories.SaleRepository
}

func NewSaleService(db *gorm.DB, sales *repositories.SaleRepository) *SaleService {
	return &SaleService{db: db, sales: sales}
}

// ListSales returns every sale with its items, newest first.
func (s *SaleService) ListSales() ([]models.Sale, error) {
	return s.sales.All()
}

// FindSale loads one sale with its items.
func (s *SaleService) FindSale(id uint) (models.Sale, error) {
	return s.sales.FindByID(id)
}

// CreateSale records a sale. Lines with quantity <= 0 are skipped; each kept
// line snapshots the product's current price and decrements its stock.
func (s *SaleService) CreateSale(in SaleInput) (models.Sale, error) {
	imagePath, err := s.storeImage(in)
	if err != nil {
		return models.Sale{}, err
	}

	sale := models.Sale{Title: in.Title, ImagePath: imagePath}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for _, line := range in.Lines {
			if line.Quantity <= 0 {
				continue
			}

			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					logger.Warn("sale: unknown product in submission",
						"product_id", line.ProductID)
					continue
				}
				return err
			}

			item := models.SaleItem{
				SaleID:    sale.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)

			product.Stock -= line.Quantity
			if product.Stock < 0 {
				logger.Warn("sale: stock went negative",
					"product_id", product.ID, "stock", product.Stock)
			}
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Sale{}, err
	}

	metrics.SalesRecorded.Inc()
	metrics.SaleItemsRecorded.Add(float64(len(sale.Items)))
	InvalidateProductCache()

	event.Fire("sale.created", sale)
	s.checkLowStock(sale)

	return sale, nil
}

// DeleteSale removes the sale and all its line items. Product rows are
// untouched.
func (s *SaleService) DeleteSale(id uint) error {
	if err := s.sales.DeleteWithItems(id); err != nil {
		return err
	}
	event.Fire("sale.deleted", id)
	return nil
}

// storeImage writes the uploaded file to the configured disk and returns
// its relative path, or "" when there is no upload. An existing file with
// the same sanitized name is overwritten.
func (s *SaleService) storeImage(in SaleInput) (string, error) {
	if in.Image == nil || in.ImageName == "" {
		return "", nil
	}

	name := sanitizeFilename(in.ImageName)
	dst := path.Join(config.UploadDir(), name)
	if err := storage.PutStream(dst, in.Image); err != nil {
		return "", err
	}
	return dst, nil
}

// checkLowStock fires the alert event for every product the sale pushed to
// or below the configured threshold.
func (s *SaleService) checkLowStock(sale models.Sale) {
	threshold := config.LowStockThreshold()
	for _, item := range sale.Items {
		var product models.Product
		if err := s.db.First(&product, item.ProductID).Error; err != nil {
			continue
		}
		if product.Stock <= threshold {
			event.Fire("stock.low", product)
		}
		event.Fire("stock.updated", product)
	}
}

// sanitizeFilename strips any directory components and whitespace from an
// uploaded filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return name
}
