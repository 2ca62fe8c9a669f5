package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/bind"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/resource"
	"github.com/mgiraldo/almacen/pkg/response"
	"github.com/mgiraldo/almacen/pkg/validate"
)

// APIController serves the JSON surface under /api. Reads and writes mirror
// the web pages; auth is a JWT bearer token instead of the session cookie.
type APIController struct {
	auth  *services.AuthService
	stock *services.StockService
	sales *services.SaleService
}

func NewAPIController(auth *services.AuthService, stock *services.StockService, sales *services.SaleService) *APIController {
	return &APIController{auth: auth, stock: stock, sales: sales}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a JWT.
func (c *APIController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.APILogin(in.Email, in.Password)
	if err != nil {
		response.Unauthorized(w)
		return
	}

	response.Success(w, map[string]interface{}{
		"token":  token,
		"nombre": user.Name,
	})
}

// ListProducts returns the catalog.
func (c *APIController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.stock.ListProducts()
	if err != nil {
		logger.Error("api: list products", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not list products")
		return
	}
	resource.Collection(ProductResource{}, products).Respond(w)
}

// CreateProduct adds a catalog entry.
func (c *APIController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.stock.CreateProduct(in)
	if err != nil {
		logger.Error("api: create product", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create product")
		return
	}
	resource.New(ProductResource{}, product).RespondWithStatus(w, http.StatusCreated)
}

// ListSales returns every sale with items.
func (c *APIController) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := c.sales.ListSales()
	if err != nil {
		logger.Error("api: list sales", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not list sales")
		return
	}
	resource.Collection(SaleResource{}, sales).Respond(w)
}

type saleLineRequest struct {
	ProductID uint `json:"producto_id" validate:"required"`
	Quantity  int  `json:"cantidad" validate:"integer"`
}

type saleRequest struct {
	Title string            `json:"titulo" validate:"required"`
	Lines []saleLineRequest `json:"items" validate:"required"`
}

// CreateSale records a sale from a JSON body. No image upload on this path.
func (c *APIController) CreateSale(w http.ResponseWriter, r *http.Request) {
	var in saleRequest
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	input := services.SaleInput{Title: in.Title}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, services.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	sale, err := c.sales.CreateSale(input)
	if err != nil {
		logger.Error("api: create sale", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not create sale")
		return
	}
	resource.New(SaleResource{}, sale).RespondWithStatus(w, http.StatusCreated)
}

// DeleteSale removes a sale and its items.
func (c *APIController) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	if _, err := c.sales.FindSale(uint(id)); err != nil {
		response.NotFound(w)
		return
	}
	if err := c.sales.DeleteSale(uint(id)); err != nil {
		logger.Error("api: delete sale", "id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not delete sale")
		return
	}
	response.Success(w, map[string]interface{}{"deleted": id})
}
