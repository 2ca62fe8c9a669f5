// Package listeners wires the domain events fired by the services to their
// side effects: the live stock feed and the queued low-stock alerts.
package listeners

import (
	"github.com/mgiraldo/almacen/app/jobs"
	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/queue"
	"github.com/mgiraldo/almacen/pkg/ws"
)

// Register attaches every listener. Call once at boot, after the hub exists.
func Register(stockHub *ws.Hub) {
	event.Listen("stock.updated", func(payload any) {
		product, ok := payload.(models.Product)
		if !ok {
			return
		}
		stockHub.BroadcastJSON(map[string]any{
			"producto_id": product.ID,
			"nombre":      product.Name,
			"stock":       product.Stock,
		})
	})

	event.Listen("stock.low", func(payload any) {
		product, ok := payload.(models.Product)
		if !ok {
			return
		}
		job := &jobs.LowStockJob{
			ProductID:   product.ID,
			ProductName: product.Name,
			Stock:       product.Stock,
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("listeners: dispatch low stock job", "error", err)
		}
	})
}
