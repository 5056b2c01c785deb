package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: loads the completed order, renders
// the PDF ticket, and optionally emails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sefedemircan/triz-pos/internal/infra"
	"github.com/sefedemircan/triz-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptPayload is the job envelope sent to QueueReceipt.
type ReceiptPayload struct {
	OrderID       string  `json:"order_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// ReceiptWorker renders PDF receipts for completed orders.
type ReceiptWorker struct {
	orderRepo      repository.OrderRepository
	mailer         *infra.Mailer
	dispatcher     *Dispatcher
	businessName   string
	pdfStoragePath string
}

func NewReceiptWorker(
	orderRepo repository.OrderRepository,
	mailer *infra.Mailer,
	dispatcher *Dispatcher,
	businessName string,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		orderRepo:      orderRepo,
		mailer:         mailer,
		dispatcher:     dispatcher,
		businessName:   businessName,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptPayload from the job envelope
//  2. Fetch the order (with items and table) from DB
//  3. Render the PDF receipt
//  4. Email it when the customer left an address
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("receipt_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: order not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, w.businessName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("order_id", payload.OrderID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		subject := fmt.Sprintf("%s — your receipt", w.businessName)
		body := fmt.Sprintf("Thank you for your visit.\nTotal: $%s", order.TotalAmount.StringFixed(2))
		if err := w.mailer.Send(*payload.CustomerEmail, subject, body, pdfPath); err != nil {
			log.Warn().Err(err).Str("to", *payload.CustomerEmail).Msg("receipt_worker: failed to send email")
			return
		}
		log.Info().Str("to", *payload.CustomerEmail).Msg("receipt_worker: receipt emailed")
	}
}
