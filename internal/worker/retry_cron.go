package worker

// retry_cron.go
// Background goroutine that periodically re-attempts receipt generation for
// receipts stuck in status='pending' with a next_retry_at in the past.
// Skips entirely while the SMTP circuit breaker is open so the mail leg
// cannot be hammered during an outage.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wali1264/ketabestan2/internal/infra"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReceiptRepo repository.ReceiptRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries stuck receipts, and re-enqueues their jobs.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely - the email leg would fast-fail anyway.
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	receipts, err := cfg.ReceiptRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(receipts) == 0 {
		return
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: re-enqueueing stuck receipts")

	for i := range receipts {
		rec := &receipts[i]

		if rec.RetryCount >= MaxReceiptRetries {
			// Should have been finalized already; make sure it lands in the DLQ.
			payload := fmt.Sprintf(`{"sale_id":%q,"receipt_id":%q}`, rec.SaleID, rec.ID)
			reason := "max retries exceeded"
			if rec.LastError != nil {
				reason = fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, *rec.LastError)
			}
			SendToDLQ(ctx, cfg.RDB, QueueReceipts, "receipt", json.RawMessage(payload), reason, rec.RetryCount)
			rec.NextRetryAt = nil
			_ = cfg.ReceiptRepo.Update(ctx, rec)
			continue
		}

		job := ReceiptJobPayload{SaleID: rec.SaleID.String(), CustomerEmail: rec.EmailTo}
		if err := cfg.Dispatcher.EnqueueReceipt(ctx, job); err != nil {
			log.Error().Err(err).Str("receipt_id", rec.ID.String()).Msg("retry_cron: failed to re-enqueue")
			continue
		}

		// Push the next attempt out so the same row is not re-enqueued on
		// every tick while the job waits in the queue.
		next := now.Add(computeRetryBackoff(rec.RetryCount + 1))
		rec.NextRetryAt = &next
		_ = cfg.ReceiptRepo.Update(ctx, rec)

		log.Info().
			Str("receipt_id", rec.ID.String()).
			Int("retry_count", rec.RetryCount).
			Msg("retry_cron: receipt re-enqueued")
	}
}
