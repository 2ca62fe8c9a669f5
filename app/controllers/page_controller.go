package controllers

import "net/http"

// PageController serves the static informational pages.
type PageController struct{}

func NewPageController() *PageController { return &PageController{} }

func (c *PageController) Proveedores(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "proveedores", "Proveedores", nil)
}

func (c *PageController) Gastos(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "gastos", "Gastos", nil)
}
