// Package routes maps URLs to controllers.
package routes

import (
	"github.com/mgiraldo/almacen/app/controllers"
	"github.com/mgiraldo/almacen/pkg/middleware"
	"github.com/mgiraldo/almacen/pkg/router"
)

// WebControllers groups the page controllers the web routes need.
type WebControllers struct {
	Auth  *controllers.AuthController
	Stock *controllers.StockController
	Sales *controllers.SaleController
	Pages *controllers.PageController
}

// RegisterWeb mounts the server-rendered pages. Everything except the login
// and registration pages sits behind the session guard.
func RegisterWeb(r *router.Router, c WebControllers) {
	r.Get("/", "login.show", c.Auth.ShowLogin)
	r.Post("/", "login.submit", c.Auth.Login)
	r.Get("/register", "register.show", c.Auth.ShowRegister)
	r.Post("/register", "register.submit", c.Auth.Register)

	protected := r.Group("", middleware.RequireAuth)
	protected.Get("/home", "home", c.Auth.Home)
	protected.Get("/logout", "logout", c.Auth.Logout)

	protected.Get("/stock", "stock.index", c.Stock.Index)
	protected.Get("/agregar_stock", "stock.create", c.Stock.ShowCreate)
	protected.Post("/agregar_stock", "stock.store", c.Stock.Create)

	protected.Get("/ventas", "sales.index", c.Sales.Index)
	protected.Get("/agregar_venta", "sales.create", c.Sales.ShowCreate)
	protected.Post("/agregar_venta", "sales.store", c.Sales.Create)

	protected.Get("/proveedores", "pages.proveedores", c.Pages.Proveedores)
	protected.Get("/gastos", "pages.gastos", c.Pages.Gastos)
}
