package worker

// alert_worker.go
// Processes low-stock notification jobs from QueueAlert: composes a short
// message and sends it to the configured alert recipient via SMTP, with
// exponential backoff. Jobs that still fail go to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sefedemircan/triz-pos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AlertPayload is the job envelope sent to QueueAlert.
type AlertPayload struct {
	StockItemName string `json:"stock_item_name"`
	Unit          string `json:"unit"`
	CurrentStock  string `json:"current_stock"`
	MinLevel      string `json:"min_level"`
	AlertType     string `json:"alert_type"` // "low_stock" | "out_of_stock"
}

// AlertWorker sends low-stock notification emails.
type AlertWorker struct {
	mailer       *infra.Mailer
	alertEmail   string
	businessName string
}

func NewAlertWorker(mailer *infra.Mailer, alertEmail, businessName string) *AlertWorker {
	return &AlertWorker{mailer: mailer, alertEmail: alertEmail, businessName: businessName}
}

// Process sends one alert email. SMTP is retried 3 times; a job that still
// fails is parked in the DLQ rather than dropped.
func (w *AlertWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Warn().Msg("alert_worker: no alert recipient configured — skipping")
		return
	}

	subject := fmt.Sprintf("[%s] Low stock: %s", w.businessName, payload.StockItemName)
	if payload.AlertType == "out_of_stock" {
		subject = fmt.Sprintf("[%s] OUT OF STOCK: %s", w.businessName, payload.StockItemName)
	}
	body := fmt.Sprintf(
		"%s is down to %s %s (minimum level %s %s).\nPlease restock soon.",
		payload.StockItemName, payload.CurrentStock, payload.Unit, payload.MinLevel, payload.Unit,
	)

	err := withRetry(ctx, 3, func(attempt int) error {
		if err := w.mailer.Send(w.alertEmail, subject, body, ""); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("stock_item", payload.StockItemName).
				Msg("alert_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("stock_item", payload.StockItemName).Msg("alert_worker: failed after all retries")
		SendToDLQ(ctx, rdb, QueueAlert, "alert", raw, err.Error(), 3)
		return
	}
	log.Info().Str("stock_item", payload.StockItemName).Str("to", w.alertEmail).Msg("alert_worker: alert email sent")
}
