// Package describe is the offline pipeline that writes marketing-style
// descriptions for records that lack one, driving the generative model once
// per record with checkpointed progress.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/pkg/fn"
	"github.com/realtylens/realtylens/pkg/listings"
	"golang.org/x/time/rate"
)

// FailedDescription is the sentinel substituted when generation fails for a
// single record. It never aborts the range.
const FailedDescription = "Description generation failed"

// DefaultSaveInterval is the checkpoint cadence when none is configured.
const DefaultSaveInterval = 10

// Generator abstracts the text-generation service.
type Generator interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Checkpoint describes one persisted progress snapshot. It is returned to the
// caller as well as written to disk, so cadence can be asserted without
// filesystem inspection. Checkpoints aid human-driven resumption only;
// nothing consumes them automatically.
type Checkpoint struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Completed int    `json:"completed"`
	Path      string `json:"path"`
}

// Options configures the description pipeline.
type Options struct {
	// SaveInterval is the number of successful generations between
	// checkpoints.
	SaveInterval int
	// OutputDir receives checkpoint artifacts. Empty means the working
	// directory.
	OutputDir string
	// Limiter paces model calls. Nil disables pacing.
	Limiter *rate.Limiter
	// Retry controls per-record retries before the sentinel is substituted.
	Retry fn.RetryOpts
}

// Pipeline generates listing descriptions for row ranges.
type Pipeline struct {
	gen    Generator
	opts   Options
	logger *slog.Logger
	now    func() time.Time // for deterministic artifact names in tests
}

// New creates a description Pipeline.
func New(gen Generator, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = DefaultSaveInterval
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = fn.RetryOpts{MaxAttempts: 2, InitialWait: time.Second, MaxWait: 10 * time.Second, Jitter: true}
	}
	return &Pipeline{gen: gen, opts: opts, logger: logger, now: time.Now}
}

// GenerateRange generates descriptions for records in the half-open range
// [start, end), clamped to the available rows. It returns the processed slice
// with descriptions filled in and every checkpoint written along the way,
// including the unconditional final one.
func (p *Pipeline) GenerateRange(ctx context.Context, records []domain.PropertyRecord, start, end int) ([]domain.PropertyRecord, []Checkpoint, error) {
	start = max(start, 0)
	end = min(end, len(records))
	if start >= end {
		return nil, nil, fmt.Errorf("describe: empty range [%d, %d)", start, end)
	}
	if p.opts.OutputDir != "" {
		if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("describe: output dir: %w", err)
		}
	}

	p.logger.Info("describe: range start", "start", start, "end", end, "rows", end-start)

	working := make([]domain.PropertyRecord, end-start)
	copy(working, records[start:end])

	var checkpoints []Checkpoint
	completed := 0
	sinceSave := 0

	for i := range working {
		if p.opts.Limiter != nil && i > 0 {
			if err := p.opts.Limiter.Wait(ctx); err != nil {
				return nil, checkpoints, fmt.Errorf("describe: cancelled: %w", err)
			}
		}

		desc, err := p.generateOne(ctx, working[i])
		if err != nil {
			p.logger.Warn("describe: generation failed", "property_id", working[i].PropertyID, "err", err)
			working[i].Description = FailedDescription
			continue
		}
		working[i].Description = desc
		completed++
		sinceSave++

		if sinceSave >= p.opts.SaveInterval {
			cp, err := p.save(working[:i+1], start, end, completed)
			if err != nil {
				p.logger.Error("describe: checkpoint write failed", "err", err)
			} else {
				checkpoints = append(checkpoints, cp)
			}
			sinceSave = 0
		}
	}

	// Unconditional final snapshot.
	cp, err := p.save(working, start, end, completed)
	if err != nil {
		return working, checkpoints, fmt.Errorf("describe: final save: %w", err)
	}
	checkpoints = append(checkpoints, cp)

	p.logger.Info("describe: range done", "completed", completed, "failed", len(working)-completed)
	return working, checkpoints, nil
}

// generateOne builds the per-record prompt and invokes the model, retrying
// transient failures before giving up.
func (p *Pipeline) generateOne(ctx context.Context, rec domain.PropertyRecord) (string, error) {
	meta, err := domain.Normalize(rec)
	if err != nil {
		return "", err
	}
	prompt := BuildDescriptionPrompt(meta)

	result := fn.Retry(ctx, p.opts.Retry, func(ctx context.Context) fn.Result[string] {
		return fn.FromPair(p.gen.Invoke(ctx, prompt))
	})
	return result.Unwrap()
}

// save persists the rows processed so far as a range-and-timestamp named CSV.
func (p *Pipeline) save(rows []domain.PropertyRecord, start, end, completed int) (Checkpoint, error) {
	name := fmt.Sprintf("properties_descriptions_%d_to_%d_progress_%s.csv",
		start, end, p.now().Format("20060102_150405"))
	path := filepath.Join(p.opts.OutputDir, name)

	if err := listings.Write(path, rows); err != nil {
		return Checkpoint{}, err
	}
	p.logger.Info("describe: checkpoint saved", "path", path, "completed", completed)
	return Checkpoint{Start: start, End: end, Completed: completed, Path: path}, nil
}
