// Command purge deletes every point from the vector collection. The
// collection itself and its schema are left in place.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/realtylens/realtylens/engine/semantic"
	"github.com/realtylens/realtylens/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.yaml", "path to YAML config")
	yes := flag.Bool("yes", false, "skip the confirmation check")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if cfg.QdrantAddr == "" || cfg.Collection == "" {
		logger.Error("qdrant address and collection are required")
		os.Exit(1)
	}
	if !*yes {
		logger.Error("refusing to purge without -yes", "collection", cfg.Collection)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vectorStore, err := semantic.New(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		logger.Error("qdrant connect failed", "err", err)
		os.Exit(1)
	}
	defer vectorStore.Close()

	if err := vectorStore.Purge(ctx); err != nil {
		logger.Error("purge failed", "err", err)
		os.Exit(1)
	}
	logger.Info("collection purged", "collection", cfg.Collection)
}
