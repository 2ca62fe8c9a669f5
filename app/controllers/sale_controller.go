package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/logger"
)

// maxSaleUpload caps the multipart form held in memory (file spills to disk
// above this).
const maxSaleUpload = 10 << 20 // 10 MB

// SaleController serves the sales pages.
type SaleController struct {
	sales *services.SaleService
	stock *services.StockService
}

func NewSaleController(sales *services.SaleService, stock *services.StockService) *SaleController {
	return &SaleController{sales: sales, stock: stock}
}

// Index lists every sale with its line items.
func (c *SaleController) Index(w http.ResponseWriter, r *http.Request) {
	sales, err := c.sales.ListSales()
	if err != nil {
		logger.Error("sale: list sales", "error", err)
		flashRedirect(w, r, "error", "No se pudieron cargar las ventas.", "/home")
		return
	}
	renderPage(w, r, "ventas", "Ventas", sales)
}

// ShowCreate renders the add-sale form with the current catalog.
func (c *SaleController) ShowCreate(w http.ResponseWriter, r *http.Request) {
	products, err := c.stock.ListProducts()
	if err != nil {
		logger.Error("sale: load products for form", "error", err)
		flashRedirect(w, r, "error", "No se pudo cargar el formulario.", "/ventas")
		return
	}
	renderPage(w, r, "agregar_venta", "Registrar venta", products)
}

// Create handles the add-sale submission: title, optional image, and the
// per-product cantidad_<id> fields parsed into structured lines before the
// service sees them.
func (c *SaleController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSaleUpload); err != nil {
		flashRedirect(w, r, "error", "Formulario inválido.", "/agregar_venta")
		return
	}

	title := strings.TrimSpace(r.PostFormValue("titulo"))
	if title == "" {
		flashRedirect(w, r, "error", "El título es obligatorio.", "/agregar_venta")
		return
	}

	in := services.SaleInput{
		Title: title,
		Lines: parseSaleLines(r),
	}

	if file, header, err := r.FormFile("imagen"); err == nil && header.Filename != "" {
		defer file.Close()
		in.Image = file
		in.ImageName = header.Filename
	}

	if _, err := c.sales.CreateSale(in); err != nil {
		logger.Error("sale: create", "error", err)
		flashRedirect(w, r, "error", "No se pudo registrar la venta.", "/agregar_venta")
		return
	}

	flashRedirect(w, r, "success", "Venta registrada.", "/ventas")
}

// parseSaleLines collects the cantidad_<id> fields into (product, quantity)
// pairs. Unparseable IDs or quantities are dropped here; the quantity sign
// check stays in the service.
func parseSaleLines(r *http.Request) []services.SaleLine {
	var lines []services.SaleLine
	for key, values := range r.PostForm {
		id, ok := strings.CutPrefix(key, "cantidad_")
		if !ok || len(values) == 0 {
			continue
		}
		productID, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			continue
		}
		lines = append(lines, services.SaleLine{ProductID: uint(productID), Quantity: qty})
	}
	return lines
}
