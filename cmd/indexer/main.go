// Command indexer embeds property listings and upserts them into the vector
// collection. It runs in two modes: a one-shot pass over a CSV file, or a
// long-lived NATS consumer draining the ingest subject.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/realtylens/realtylens/engine/embed"
	"github.com/realtylens/realtylens/engine/ingest"
	"github.com/realtylens/realtylens/engine/semantic"
	"github.com/realtylens/realtylens/pkg/config"
	"github.com/realtylens/realtylens/pkg/listings"
	"github.com/realtylens/realtylens/pkg/metrics"
	"github.com/realtylens/realtylens/pkg/ollama"
	"github.com/realtylens/realtylens/pkg/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.yaml", "path to YAML config")
	input := flag.String("input", "", "CSV file of property listings")
	batchSize := flag.Int("batch", ingest.DefaultBatchSize, "records per upsert batch")
	ratePerSec := flag.Float64("rate", 0, "max batches per second (0 disables pacing)")
	subscribe := flag.Bool("subscribe", false, "consume records from NATS instead of a CSV")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "err", err)
		os.Exit(1)
	}
	if !*subscribe && *input == "" {
		logger.Error("either -input or -subscribe is required")
		os.Exit(1)
	}

	if err := run(cfg, *input, *batchSize, *ratePerSec, *subscribe, logger); err != nil {
		logger.Error("indexer failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, input string, batchSize int, ratePerSec float64, subscribe bool, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vectorStore, err := semantic.New(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	if err := vectorStore.EnsureCollection(ctx, embedder.Dimension()); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	deps := ingest.Deps{
		Embedder: embedder,
		Store:    vectorStore,
		Limiter:  limiter,
		Logger:   logger,
	}

	reg := metrics.New()
	reg.ServeAsync(cfg.MetricsPort)

	if subscribe {
		return runConsumer(ctx, cfg, deps, logger)
	}
	return runCSV(ctx, input, batchSize, deps, reg, logger)
}

func runCSV(ctx context.Context, input string, batchSize int, deps ingest.Deps, reg *metrics.Registry, logger *slog.Logger) error {
	records, err := listings.Read(input)
	if err != nil {
		return fmt.Errorf("read listings: %w", err)
	}
	logger.Info("loaded listings", "path", input, "count", len(records))

	report := ingest.Run(ctx, records, batchSize, deps)

	reg.Counter(metrics.WithLabels("ingest_records_total", "outcome", "ok"), "Records by outcome.").Add(int64(report.Succeeded))
	reg.Counter(metrics.WithLabels("ingest_records_total", "outcome", "failed"), "").Add(int64(report.Failed))
	reg.Counter(metrics.WithLabels("ingest_records_total", "outcome", "dropped"), "").Add(int64(report.Dropped))

	logger.Info("ingest complete",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"dropped", report.Dropped,
		"batches", report.Batches,
	)
	if len(report.FailedBatches) > 0 {
		return fmt.Errorf("ingest: %d of %d batches failed", len(report.FailedBatches), report.Batches)
	}
	return nil
}

func runConsumer(ctx context.Context, cfg config.Config, deps ingest.Deps, logger *slog.Logger) error {
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Drain()

	sub, err := ingest.StartConsumer(nc, deps)
	if err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	defer sub.Unsubscribe()

	logger.Info("consuming ingest subject", "subject", ingest.IngestSubject, "nats", cfg.NATSURL)
	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}

func buildEmbedder(cfg config.Config) (embed.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(openai.Config{
			APIKey:     cfg.OpenAI.APIKey(),
			BaseURL:    cfg.OpenAI.BaseURL,
			EmbedModel: cfg.OpenAI.EmbedModel,
			ChatModel:  cfg.OpenAI.ChatModel,
			Dimension:  cfg.OpenAI.Dimension,
		})
	default:
		return ollama.NewEmbedClient(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, cfg.Ollama.Dimension), nil
	}
}
