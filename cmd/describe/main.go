// Command describe generates marketing descriptions for a row range of a
// listings CSV, checkpointing progress so long runs can be resumed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/realtylens/realtylens/engine/describe"
	"github.com/realtylens/realtylens/pkg/config"
	"github.com/realtylens/realtylens/pkg/fn"
	"github.com/realtylens/realtylens/pkg/listings"
	"github.com/realtylens/realtylens/pkg/ollama"
	"github.com/realtylens/realtylens/pkg/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.yaml", "path to YAML config")
	input := flag.String("input", "", "CSV file of property listings")
	outputDir := flag.String("output", ".", "directory for checkpoint files")
	start := flag.Int("start", 0, "first row index to process")
	end := flag.Int("end", -1, "row index to stop before (-1 means all rows)")
	interval := flag.Int("interval", describe.DefaultSaveInterval, "successful generations between checkpoints")
	ratePerSec := flag.Float64("rate", 0, "max model calls per second (0 disables pacing)")
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
	if *input == "" {
		logger.Error("-input is required")
		os.Exit(1)
	}

	if err := run(cfg, *input, *outputDir, *start, *end, *interval, *ratePerSec, logger); err != nil {
		logger.Error("describe failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, input, outputDir string, start, end, interval int, ratePerSec float64, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := listings.Read(input)
	if err != nil {
		return fmt.Errorf("read listings: %w", err)
	}
	if end < 0 {
		end = len(records)
	}
	logger.Info("loaded listings", "path", input, "count", len(records), "start", start, "end", end)

	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	pipeline := describe.New(gen, describe.Options{
		SaveInterval: interval,
		OutputDir:    outputDir,
		Limiter:      limiter,
		Retry:        fn.RetryOpts{MaxAttempts: 3, InitialWait: 2 * time.Second, MaxWait: 30 * time.Second},
	}, logger)

	_, checkpoints, err := pipeline.GenerateRange(ctx, records, start, end)
	if err != nil {
		return fmt.Errorf("generate range: %w", err)
	}

	for _, cp := range checkpoints {
		logger.Info("checkpoint written", "path", cp.Path, "start", cp.Start, "end", cp.End, "completed", cp.Completed)
	}
	return nil
}

func buildGenerator(cfg config.Config) (describe.Generator, error) {
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
		return ollama.NewGenerateClient(cfg.Ollama.BaseURL, cfg.Ollama.ChatModel), nil
	}
}
