package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipts: fetches the sale, records a
// receipt row, renders the PDF, and hands off to the email queue when the
// customer left an address. PDF failures stay on the receipt row for the
// retry cron to pick up.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wali1264/ketabestan2/internal/infra"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxReceiptRetries caps retry-cron attempts before a receipt lands in the DLQ.
const MaxReceiptRetries = 3

type ReceiptWorker struct {
	receipts       repository.ReceiptRepository
	sales          repository.SaleRepository
	settings       repository.SettingsRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReceiptWorker(
	receipts repository.ReceiptRepository,
	sales repository.SaleRepository,
	settings repository.SettingsRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		receipts:       receipts,
		sales:          sales,
		settings:       settings,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload
//  2. Fetch the sale invoice with its lines
//  3. Create (or reuse) the receipt record, status "pending"
//  4. Render the PDF
//  5. Enqueue an email job when the customer left an address
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	inv, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	// Re-delivered jobs reuse the existing record.
	rec, err := w.receipts.FindBySaleID(ctx, saleID)
	if err != nil {
		rec = &model.Receipt{
			SaleID:  saleID,
			Number:  inv.Number,
			Status:  model.ReceiptPending,
			EmailTo: payload.CustomerEmail,
		}
		if err := w.receipts.Create(ctx, rec); err != nil {
			log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: failed to create receipt")
			return
		}
	}

	storeName := "Ketabestan"
	if s, err := w.settings.Get(ctx); err == nil {
		storeName = s.StoreName
	}

	pdfPath, err := infra.GenerateReceiptPDF(inv, storeName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		w.markFailed(ctx, rec, err)
		return
	}

	rec.PDFPath = &pdfPath
	rec.Status = model.ReceiptGenerated
	rec.LastError = nil
	rec.NextRetryAt = nil
	if err := w.receipts.Update(ctx, rec); err != nil {
		log.Error().Err(err).Str("receipt_id", rec.ID.String()).Msg("receipt_worker: failed to update receipt")
		return
	}
	log.Info().Str("sale_id", payload.SaleID).Str("pdf", pdfPath).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ReceiptID: rec.ID.String(),
			ToEmail:   *payload.CustomerEmail,
			Subject:   fmt.Sprintf("%s — receipt #%d", storeName, inv.Number),
			Body:      fmt.Sprintf("Thank you for your purchase. Receipt #%d is attached.", inv.Number),
			PDFPath:   pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Error().Err(err).Str("receipt_id", rec.ID.String()).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

func (w *ReceiptWorker) markFailed(ctx context.Context, rec *model.Receipt, cause error) {
	rec.RetryCount++
	msg := cause.Error()
	rec.LastError = &msg
	if rec.RetryCount >= MaxReceiptRetries {
		rec.Status = model.ReceiptError
		rec.NextRetryAt = nil
	} else {
		rec.Status = model.ReceiptPending
		next := time.Now().Add(computeRetryBackoff(rec.RetryCount))
		rec.NextRetryAt = &next
	}
	_ = w.receipts.Update(ctx, rec)
}

// computeRetryBackoff grows the retry interval per attempt: 1m, 5m, 15m.
func computeRetryBackoff(retryCount int) time.Duration {
	switch {
	case retryCount <= 1:
		return time.Minute
	case retryCount == 2:
		return 5 * time.Minute
	default:
		return 15 * time.Minute
	}
}
