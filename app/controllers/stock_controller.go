package controllers

import (
	"net/http"

	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/bind"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/validate"
)

// StockController serves the product catalog pages.
type StockController struct {
	service *services.StockService
}

func NewStockController(service *services.StockService) *StockController {
	return &StockController{service: service}
}

// Index lists every product.
func (c *StockController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts()
	if err != nil {
		logger.Error("stock: list products", "error", err)
		flashRedirect(w, r, "error", "No se pudo cargar el stock.", "/home")
		return
	}
	renderPage(w, r, "stock", "Stock", products)
}

// ShowCreate renders the add-product form.
func (c *StockController) ShowCreate(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "agregar_stock", "Agregar producto", nil)
}

// Create handles the add-product submission.
func (c *StockController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.Form(r, &in); err != nil || validate.HasErrors(errs) {
		flashRedirect(w, r, "error", "Revisa los datos del producto.", "/agregar_stock")
		return
	}

	if _, err := c.service.CreateProduct(in); err != nil {
		logger.Error("stock: create product", "error", err)
		flashRedirect(w, r, "error", "No se pudo guardar el producto.", "/agregar_stock")
		return
	}

	flashRedirect(w, r, "success", "Producto agregado.", "/stock")
}
