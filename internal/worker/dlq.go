package worker

// dlq.go
// Receipt and alert jobs that exhaust their retries are parked on a Redis
// list per source queue (dlq:jobs:receipt, dlq:jobs:alert) so an operator can
// inspect and requeue them by hand. Nothing is dropped silently.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// DLQEntry wraps a failed job with enough context to requeue it by hand:
// the alert payload still names the stock item, the receipt payload the order.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// SendToDLQ parks a failed job on the dead letter list of its source queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		Queue:    queue,
		JobType:  jobType,
		Payload:  payload,
		Reason:   reason,
		FailedAt: time.Now().UTC(),
		Attempts: attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to park job")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked in dead letter queue")
}

// DLQDepths reports the dead-letter backlog per source queue. Surfaced by the
// health endpoint so a growing backlog is visible without a Redis shell.
func DLQDepths(ctx context.Context, rdb *redis.Client) map[string]int64 {
	depths := make(map[string]int64, 2)
	for _, queue := range []string{QueueReceipt, QueueAlert} {
		n, err := rdb.LLen(ctx, dlqPrefix+queue).Result()
		if err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: depth lookup failed")
			continue
		}
		depths[queue] = n
	}
	return depths
}
