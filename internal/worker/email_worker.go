package worker

// email_worker.go
// Processes email jobs from QueueEmail. Every SMTP call goes through the
// circuit breaker so a downed mail server fast-fails instead of stalling the
// pool. Failed sends go to the DLQ after retries.

import (
	"context"
	"encoding/json"

	"github.com/wali1264/ketabestan2/internal/infra"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type EmailWorker struct {
	mailer   *infra.Mailer
	cb       *infra.CircuitBreaker
	receipts repository.ReceiptRepository
	rdb      *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, receipts repository.ReceiptRepository, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, receipts: receipts, rdb: rdb}
}

// Process sends one receipt email with the PDF attached and marks the
// receipt as sent.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, sendErr.Error(), 3)
		return
	}

	if id, err := uuid.Parse(payload.ReceiptID); err == nil {
		if rec, err := w.receipts.FindByID(ctx, id); err == nil {
			rec.Status = model.ReceiptSent
			_ = w.receipts.Update(ctx, rec)
		}
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent")
}
