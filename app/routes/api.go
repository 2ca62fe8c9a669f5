package routes

import (
	"github.com/mgiraldo/almacen/app/controllers"
	"github.com/mgiraldo/almacen/app/graphql"
	"github.com/mgiraldo/almacen/pkg/middleware"
	"github.com/mgiraldo/almacen/pkg/router"
)

// RegisterAPI mounts the JSON surface. Login is open; everything else wants
// a bearer token.
func RegisterAPI(r *router.Router, api *controllers.APIController, gql *graphql.Handler) {
	g := r.Group("/api")
	g.Post("/login", "api.login", api.Login)

	protected := g.Group("", middleware.RequireToken)
	protected.Get("/products", "api.products.index", api.ListProducts)
	protected.Post("/products", "api.products.store", api.CreateProduct)
	protected.Get("/sales", "api.sales.index", api.ListSales)
	protected.Post("/sales", "api.sales.store", api.CreateSale)
	protected.Delete("/sales/{id}", "api.sales.delete", api.DeleteSale)
	protected.Post("/graphql", "api.graphql", gql.ServeHTTP)
}
