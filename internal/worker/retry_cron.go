package worker

// retry_cron.go
// Background goroutine that periodically re-drains the import-report DLQ:
// entries that still have requeue budget go back onto the original queue,
// the rest are parked for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	maxTotalAttempts  = 5 // cumulative send attempts before an entry is parked
)

// StartRetryCron launches a background goroutine that ticks every few
// minutes and re-drains the DLQ. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
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
				drainDLQ(ctx, rdb, QueueImportReport)
			}
		}
	}()
}

func drainDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty or redis unavailable
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: unreadable DLQ entry dropped")
			continue
		}

		if entry.Attempts >= maxTotalAttempts {
			if err := rdb.LPush(ctx, ParkedPrefix+queue, raw).Err(); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to park entry")
			} else {
				log.Warn().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
					Msg("retry_cron: entry parked after exhausting requeues")
			}
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to marshal requeued job")
			continue
		}
		if err := rdb.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("retry_cron: requeue failed")
			continue
		}
		log.Info().Str("job_type", entry.JobType).Int("attempts", entry.Attempts).
			Msg("retry_cron: job requeued from DLQ")
	}
}
