package services

import (
	"time"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/pkg/cache"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/logger"
)

const productCacheKey = "almacen:products"

// ProductInput carries the add-product form.
type ProductInput struct {
	Name        string  `form:"nombre" json:"nombre" validate:"required"`
	Description string  `form:"descripcion" json:"descripcion" validate:"nullable"`
	Stock       int     `form:"stock" json:"stock" validate:"integer"`
	Price       float64 `form:"precio" json:"precio" validate:"numeric,gte=0"`
}

// StockService manages the product catalog. Listings go through the Redis
// cache when one is configured.
type StockService struct {
	products *repositories.ProductRepository
}

func NewStockService(products *repositories.ProductRepository) *StockService {
	return &StockService{products: products}
}

// ListProducts returns the whole catalog, served from cache when possible.
func (s *StockService) ListProducts() ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(productCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.All()
	if err != nil {
		return nil, err
	}

	if err := cache.Set(productCacheKey, products, time.Minute); err != nil {
		logger.Warn("stock: cache products", "error", err)
	}
	return products, nil
}

// CreateProduct persists a new catalog entry and invalidates the listing
// cache.
func (s *StockService) CreateProduct(in ProductInput) (models.Product, error) {
	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Stock:       in.Stock,
		Price:       in.Price,
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}

	InvalidateProductCache()
	event.Fire("stock.updated", product)
	return product, nil
}

// InvalidateProductCache drops the cached catalog listing. Called after any
// write that touches product rows, including stock decrements from sales.
func InvalidateProductCache() {
	if err := cache.Forget(productCacheKey); err != nil {
		logger.Warn("stock: invalidate cache", "error", err)
	}
}
