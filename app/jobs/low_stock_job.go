// Package jobs holds the queued background jobs.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mgiraldo/almacen/config"
	"github.com/mgiraldo/almacen/pkg/crypt"
	"github.com/mgiraldo/almacen/pkg/http"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/mail"
	"github.com/mgiraldo/almacen/pkg/queue"
)

// LowStockJob alerts when a sale drops a product to or below the configured
// threshold: an email to the configured address and, when SALE_WEBHOOK_URL
// is set, a signed webhook.
type LowStockJob struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// RegisterJobs adds every job type to the queue registry. Call once at boot.
func RegisterJobs() {
	queue.Register("*jobs.LowStockJob", func() queue.Job { return &LowStockJob{} })
}

func (j *LowStockJob) Handle() error {
	if to := config.Get("ALERT_EMAIL", ""); to != "" {
		err := mail.To(to).
			Subject(fmt.Sprintf("Stock bajo: %s", j.ProductName)).
			Body(fmt.Sprintf("<p>El producto <b>%s</b> tiene %d unidades en stock.</p>",
				j.ProductName, j.Stock)).
			Send()
		if err != nil {
			logger.Warn("jobs: low stock mail", "product_id", j.ProductID, "error", err)
		}
	}

	url := config.SaleWebhookURL()
	if url == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"producto_id": j.ProductID,
		"producto":    j.ProductName,
		"stock":       j.Stock,
		"ts":          time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(url).
		Header("Content-Type", "application/json").
		Header("X-Almacen-Signature", crypt.Hash(string(payload))).
		Retry(3, time.Second).
		Body(payload).
		Send()
	if err != nil {
		return err
	}
	return resp.Throw()
}
