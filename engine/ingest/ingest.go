// Package ingest provides the batch indexing pipeline that turns property
// records into normalized metadata, embeds their descriptions, and upserts
// the resulting vectors into the listing index.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/engine/embed"
	"github.com/realtylens/realtylens/engine/semantic"
	"github.com/realtylens/realtylens/pkg/fn"
	"golang.org/x/time/rate"
)

// DefaultBatchSize is used when the caller does not specify one.
const DefaultBatchSize = 100

// Upserter abstracts the vector store write path.
type Upserter interface {
	Upsert(ctx context.Context, records []semantic.VectorRecord) error
}

// Deps holds the external dependencies for the ingestion pipeline.
type Deps struct {
	Embedder embed.Embedder
	Store    Upserter
	// Limiter paces batches to respect external-service rate limits.
	// Nil disables pacing.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Report summarizes one ingestion run. Attempted counts every record handed
// to the pipeline; Succeeded counts records actually stored; Failed counts
// records lost to batch-level failures; Dropped counts single records
// rejected by normalization.
type Report struct {
	Attempted     int   `json:"attempted"`
	Succeeded     int   `json:"succeeded"`
	Failed        int   `json:"failed"`
	Dropped       int   `json:"dropped"`
	Batches       int   `json:"batches"`
	FailedBatches []int `json:"failed_batches,omitempty"`
}

// --- pipeline stages ---

type batchIn struct {
	index   int
	records []domain.PropertyRecord
}

type batchNormalized struct {
	index   int
	dropped int
	metas   []domain.PropertyMetadata
}

type batchEmbedded struct {
	batchNormalized
	vectors [][]float32
}

type batchStored struct {
	stored  int
	dropped int
}

// newNormalizeStage normalizes every record in a batch. A record-level
// failure drops only that record and never the batch.
func newNormalizeStage(log *slog.Logger) fn.Stage[batchIn, batchNormalized] {
	return func(_ context.Context, b batchIn) fn.Result[batchNormalized] {
		out := batchNormalized{index: b.index, metas: make([]domain.PropertyMetadata, 0, len(b.records))}
		for _, rec := range b.records {
			meta, err := domain.Normalize(rec)
			if err != nil {
				log.Warn("ingest: dropping record", "property_id", rec.PropertyID, "err", err)
				out.dropped++
				continue
			}
			out.metas = append(out.metas, meta)
		}
		return fn.Ok(out)
	}
}

// newEmbedStage embeds all descriptions of a batch in one call, amortizing
// model overhead.
func newEmbedStage(e embed.Embedder) fn.Stage[batchNormalized, batchEmbedded] {
	return func(ctx context.Context, b batchNormalized) fn.Result[batchEmbedded] {
		texts := make([]string, len(b.metas))
		for i, m := range b.metas {
			texts[i] = m.Description
		}
		vectors, err := embed.EmbedDocs(ctx, e, texts)
		if err != nil {
			return fn.Err[batchEmbedded](fmt.Errorf("embed batch %d: %w", b.index, err))
		}
		return fn.Ok(batchEmbedded{batchNormalized: b, vectors: vectors})
	}
}

// newStoreStage upserts all of a batch's vectors in one call, keyed by the
// stable listing identifier.
func newStoreStage(store Upserter) fn.Stage[batchEmbedded, batchStored] {
	return func(ctx context.Context, b batchEmbedded) fn.Result[batchStored] {
		if len(b.metas) == 0 {
			return fn.Ok(batchStored{dropped: b.dropped})
		}
		records := make([]semantic.VectorRecord, len(b.metas))
		for i, m := range b.metas {
			records[i] = semantic.VectorRecord{
				ID:        m.PropertyID,
				Embedding: b.vectors[i],
				Metadata:  m,
			}
		}
		if err := store.Upsert(ctx, records); err != nil {
			return fn.Err[batchStored](fmt.Errorf("upsert batch %d: %w", b.index, err))
		}
		return fn.Ok(batchStored{stored: len(records), dropped: b.dropped})
	}
}

func newBatchPipeline(deps Deps, log *slog.Logger) fn.Stage[batchIn, batchStored] {
	normalized := fn.TracedStage("ingest.normalize", newNormalizeStage(log))
	embedded := fn.TracedStage("ingest.embed", newEmbedStage(deps.Embedder))
	stored := fn.TracedStage("ingest.store", newStoreStage(deps.Store))
	return fn.Then(fn.Then(normalized, embedded), stored)
}

// Run partitions records into fixed-size batches (the last may be smaller)
// and drives each through normalize, embed, and upsert. A batch-level failure
// is logged and skipped; Run never returns an error and always reports every
// record as succeeded, failed, or dropped. Re-running over the same records
// is safe because upserts are keyed by the stable identifier.
func Run(ctx context.Context, records []domain.PropertyRecord, batchSize int, deps Deps) Report {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pipeline := newBatchPipeline(deps, log)
	var report Report

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		b := batchIn{index: report.Batches, records: records[start:end]}

		if b.index > 0 && deps.Limiter != nil {
			if err := deps.Limiter.Wait(ctx); err != nil {
				// Cancelled mid-run: everything not yet attempted is failed.
				for i := start; i < len(records); i += batchSize {
					report.Attempted += min(i+batchSize, len(records)) - i
					report.Failed += min(i+batchSize, len(records)) - i
					report.FailedBatches = append(report.FailedBatches, report.Batches)
					report.Batches++
				}
				log.Error("ingest: run cancelled", "err", err)
				return report
			}
		}

		report.Batches++
		report.Attempted += len(b.records)

		result := pipeline(ctx, b)
		if result.IsErr() {
			_, err := result.Unwrap()
			log.Error("ingest: batch failed", "batch", b.index, "records", len(b.records), "err", err)
			report.Failed += len(b.records)
			report.FailedBatches = append(report.FailedBatches, b.index)
			continue
		}

		out, _ := result.Unwrap()
		report.Succeeded += out.stored
		report.Dropped += out.dropped
		log.Info("ingest: batch done", "batch", b.index, "stored", out.stored, "dropped", out.dropped)
	}

	log.Info("ingest: run complete",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"dropped", report.Dropped,
		"batches", report.Batches,
	)
	return report
}
