package services_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/storage"
	"github.com/mgiraldo/almacen/pkg/testkit"
)

func newSaleService(t *testing.T) (*services.SaleService, *gorm.DB) {
	t.Helper()
	event.Flush()
	db := testkit.NewDB(t, &models.User{}, &models.Product{}, &models.Sale{}, &models.SaleItem{})
	return services.NewSaleService(db, repositories.NewSaleRepository(db)), db
}

func seedProducts(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()
	products := []models.Product{
		{Name: "Arroz", Stock: 10, Price: 2.5},
		{Name: "Aceite", Stock: 8, Price: 4.0},
		{Name: "Azúcar", Stock: 6, Price: 1.5},
	}
	require.NoError(t, db.Create(&products).Error)
	return products
}

func TestCreateSaleSkipsNonPositiveQuantities(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	sale, err := svc.CreateSale(services.SaleInput{
		Title: "Venta de prueba",
		Lines: []services.SaleLine{
			{ProductID: products[0].ID, Quantity: 2},
			{ProductID: products[1].ID, Quantity: 0},
			{ProductID: products[2].ID, Quantity: -1},
		},
	})
	require.NoError(t, err)

	var items []models.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, products[0].ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)

	var p0, p1, p2 models.Product
	db.First(&p0, products[0].ID)
	db.First(&p1, products[1].ID)
	db.First(&p2, products[2].ID)
	assert.Equal(t, 8, p0.Stock)
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 6, p2.Stock)
}

func TestCreateSaleSnapshotsUnitPrice(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	sale, err := svc.CreateSale(services.SaleInput{
		Title: "Precio congelado",
		Lines: []services.SaleLine{{ProductID: products[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Raise the catalog price afterwards; the recorded line keeps the old one.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", products[0].ID).Update("price", 99.0).Error)

	var item models.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).First(&item).Error)
	assert.Equal(t, 2.5, item.UnitPrice)
}

func TestCreateSaleStoresImage(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	root := t.TempDir()
	storage.Connect("local", root, "", "")

	sale, err := svc.CreateSale(services.SaleInput{
		Title:     "Con imagen",
		ImageName: "foto de venta.png",
		Image:     bytes.NewReader([]byte("png-bytes")),
		Lines:     []services.SaleLine{{ProductID: products[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "uploads/foto_de_venta.png", sale.ImagePath)
	_, statErr := os.Stat(filepath.Join(root, "uploads", "foto_de_venta.png"))
	assert.NoError(t, statErr)

	var stored models.Sale
	require.NoError(t, db.First(&stored, sale.ID).Error)
	assert.Equal(t, "uploads/foto_de_venta.png", stored.ImagePath)
}

func TestCreateSaleWithoutImageLeavesPathEmpty(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	sale, err := svc.CreateSale(services.SaleInput{
		Title: "Sin imagen",
		Lines: []services.SaleLine{{ProductID: products[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, sale.ImagePath)
}

func TestCreateSaleAllowsNegativeStock(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	_, err := svc.CreateSale(services.SaleInput{
		Title: "Sobreventa",
		Lines: []services.SaleLine{{ProductID: products[2].ID, Quantity: 100}},
	})
	require.NoError(t, err)

	var p models.Product
	db.First(&p, products[2].ID)
	assert.Equal(t, -94, p.Stock)
}

func TestDeleteSaleCascadesItems(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)

	sale, err := svc.CreateSale(services.SaleInput{
		Title: "Para borrar",
		Lines: []services.SaleLine{
			{ProductID: products[0].ID, Quantity: 1},
			{ProductID: products[1].ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSale(sale.ID))

	var itemCount int64
	db.Model(&models.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&itemCount)
	assert.Zero(t, itemCount)

	// Referenced products survive the cascade.
	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	assert.Equal(t, int64(3), productCount)
}

// The stock decrement is a plain read-modify-write with no row lock, so two
// concurrent sales can lose an update. This documents the gap: the final
// stock lands somewhere between fully-applied and one-update-lost, and the
// test only pins those bounds.
func TestConcurrentSalesMayLoseStockUpdates(t *testing.T) {
	svc, db := newSaleService(t)
	products := seedProducts(t, db)
	initial := products[0].Stock

	const qty = 2
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.CreateSale(services.SaleInput{ //nolint:errcheck
				Title: "Concurrente",
				Lines: []services.SaleLine{{ProductID: products[0].ID, Quantity: qty}},
			})
		}()
	}
	wg.Wait()

	var p models.Product
	db.First(&p, products[0].ID)
	assert.GreaterOrEqual(t, p.Stock, initial-2*qty)
	assert.LessOrEqual(t, p.Stock, initial)
}
