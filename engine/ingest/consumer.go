package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/nats-io/nats.go"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/pkg/natsutil"
)

const (
	// IngestSubject carries single property records for asynchronous
	// re-indexing.
	IngestSubject = "listings.ingest"
	// DLQSubject is the dead letter queue for records that repeatedly fail.
	DLQSubject = "listings.ingest.dlq"
	// MaxRetries before a record is sent to the DLQ.
	MaxRetries = 3

	retryHeader = "X-Retry-Count"
)

// dlqMessage is published to the DLQ on repeated or unrecoverable failure.
type dlqMessage struct {
	Record  domain.PropertyRecord `json:"record"`
	Error   string                `json:"error"`
	Retries int                   `json:"retries"`
}

// StartConsumer subscribes to IngestSubject and runs each incoming record
// through the indexing pipeline. Normalization failures go straight to the
// DLQ; embed/store failures are retried with a counter header before being
// dead-lettered. Upserts stay idempotent, so redelivery is harmless.
func StartConsumer(nc *nats.Conn, deps Deps) (*nats.Subscription, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	pipeline := newBatchPipeline(deps, log)

	return natsutil.Subscribe(nc, IngestSubject, func(ctx context.Context, rec domain.PropertyRecord, header nats.Header) {
		if _, err := domain.Normalize(rec); err != nil {
			// Record-level defect: retrying cannot fix it.
			log.Warn("ingest: rejecting record", "property_id", rec.PropertyID, "err", err)
			publishDLQ(ctx, nc, log, rec, err, 0)
			return
		}

		retries := 0
		if v := header.Get(retryHeader); v != "" {
			retries, _ = strconv.Atoi(v)
		}

		result := pipeline(ctx, batchIn{records: []domain.PropertyRecord{rec}})
		if result.IsErr() {
			_, pipeErr := result.Unwrap()
			retries++
			log.Error("ingest: record failed", "property_id", rec.PropertyID, "retry", retries, "err", pipeErr)

			if retries >= MaxRetries {
				publishDLQ(ctx, nc, log, rec, pipeErr, retries)
				return
			}
			h := nats.Header{}
			h.Set(retryHeader, fmt.Sprintf("%d", retries))
			if err := natsutil.PublishWithHeader(ctx, nc, IngestSubject, rec, h); err != nil {
				log.Error("ingest: retry publish failed", "err", err)
			}
			return
		}

		log.Info("ingest: record indexed", "property_id", rec.PropertyID)
	})
}

func publishDLQ(ctx context.Context, nc *nats.Conn, log *slog.Logger, rec domain.PropertyRecord, cause error, retries int) {
	msg := dlqMessage{Record: rec, Error: cause.Error(), Retries: retries}
	if err := natsutil.Publish(ctx, nc, DLQSubject, msg); err != nil {
		log.Error("ingest: DLQ publish failed", "err", err)
	}
}
