package controllers

import (
	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/pkg/collection"
	"github.com/mgiraldo/almacen/pkg/resource"
)

// ProductResource is the API shape of a product.
type ProductResource struct{ resource.Base }

func (ProductResource) ToArray(v interface{}) resource.Map {
	p := v.(models.Product)
	return resource.Map{
		"id":          p.ID,
		"nombre":      p.Name,
		"descripcion": p.Description,
		"stock":       p.Stock,
		"precio":      p.Price,
	}
}

// SaleResource is the API shape of a sale with its line items.
type SaleResource struct{ resource.Base }

func (SaleResource) ToArray(v interface{}) resource.Map {
	s := v.(models.Sale)
	items := collection.Map(s.Items, func(it models.SaleItem) resource.Map {
		return resource.Map{
			"producto_id":     it.ProductID,
			"cantidad":        it.Quantity,
			"precio_unitario": it.UnitPrice,
		}
	})
	return resource.Map{
		"id":     s.ID,
		"titulo": s.Title,
		"imagen": s.ImagePath,
		"fecha":  s.CreatedAt,
		"total":  s.Total(),
		"items":  items,
	}
}
