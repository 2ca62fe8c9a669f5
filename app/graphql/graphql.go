// Package graphql exposes a read-only query endpoint over the catalog and
// the sale ledger, for reporting clients that want to shape their own
// responses.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/response"
)

// Handler serves POST /api/graphql.
type Handler struct {
	schema graphql.Schema
}

// NewHandler builds the schema against the given services.
func NewHandler(stock *services.StockService, sales *services.SaleService) (*Handler, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Producto",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"nombre":      &graphql.Field{Type: graphql.String},
			"descripcion": &graphql.Field{Type: graphql.String},
			"stock":       &graphql.Field{Type: graphql.Int},
			"precio":      &graphql.Field{Type: graphql.Float},
		},
	})

	itemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ItemVenta",
		Fields: graphql.Fields{
			"productoId":     &graphql.Field{Type: graphql.Int},
			"cantidad":       &graphql.Field{Type: graphql.Int},
			"precioUnitario": &graphql.Field{Type: graphql.Float},
		},
	})

	saleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Venta",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.Int},
			"titulo": &graphql.Field{Type: graphql.String},
			"imagen": &graphql.Field{Type: graphql.String},
			"total":  &graphql.Field{Type: graphql.Float},
			"items":  &graphql.Field{Type: graphql.NewList(itemType)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"productos": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := stock.ListProducts()
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(products))
					for _, pr := range products {
						out = append(out, productMap(pr))
					}
					return out, nil
				},
			},
			"ventas": &graphql.Field{
				Type: graphql.NewList(saleType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := sales.ListSales()
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(list))
					for _, s := range list {
						out = append(out, saleMap(s))
					}
					return out, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

func productMap(p models.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"nombre":      p.Name,
		"descripcion": p.Description,
		"stock":       p.Stock,
		"precio":      p.Price,
	}
}

func saleMap(s models.Sale) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, map[string]interface{}{
			"productoId":     it.ProductID,
			"cantidad":       it.Quantity,
			"precioUnitario": it.UnitPrice,
		})
	}
	return map[string]interface{}{
		"id":     s.ID,
		"titulo": s.Title,
		"imagen": s.ImagePath,
		"total":  s.Total(),
		"items":  items,
	}
}

// ServeHTTP executes one query.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		logger.Debug("graphql: query errors", "errors", result.Errors)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result) //nolint:errcheck
}
