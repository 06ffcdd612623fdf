// Package main implements the RealtyLens query API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/realtylens/realtylens/engine/embed"
	"github.com/realtylens/realtylens/engine/rag"
	"github.com/realtylens/realtylens/engine/semantic"
	"github.com/realtylens/realtylens/pkg/config"
	"github.com/realtylens/realtylens/pkg/metrics"
	"github.com/realtylens/realtylens/pkg/mid"
	"github.com/realtylens/realtylens/pkg/ollama"
	"github.com/realtylens/realtylens/pkg/openai"
	"github.com/realtylens/realtylens/pkg/resilience"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.yaml", "path to YAML config")
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

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vectorStore, err := semantic.New(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder, generator, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	// The generator is the slowest and flakiest dependency; guard it so a
	// dead model backend fails fast instead of piling up requests.
	breaker := resilience.NewBreaker(resilience.DefaultBreakerOpts)
	guarded := &guardedGenerator{breaker: breaker, inner: generator}

	ragSvc := rag.New(embedder, vectorStore, guarded, rag.Options{TopK: cfg.TopK}, logger)

	reg := metrics.New()
	reg.ServeAsync(cfg.MetricsPort)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/query", handleQuery(ragSvc, reg, logger))

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("realtylens-api"),
		mid.MaxBody(1<<20),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "provider", cfg.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// buildProviders constructs the embedding and generation clients for the
// configured backend.
func buildProviders(cfg config.Config) (embed.Embedder, rag.Generator, error) {
	switch cfg.Provider {
	case "openai":
		client, err := openai.New(openai.Config{
			APIKey:     cfg.OpenAI.APIKey(),
			BaseURL:    cfg.OpenAI.BaseURL,
			EmbedModel: cfg.OpenAI.EmbedModel,
			ChatModel:  cfg.OpenAI.ChatModel,
			Dimension:  cfg.OpenAI.Dimension,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	default:
		e := ollama.NewEmbedClient(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel, cfg.Ollama.Dimension)
		g := ollama.NewGenerateClient(cfg.Ollama.BaseURL, cfg.Ollama.ChatModel)
		return e, g, nil
	}
}

// guardedGenerator runs generation through a circuit breaker.
type guardedGenerator struct {
	breaker *resilience.Breaker
	inner   rag.Generator
}

func (g *guardedGenerator) Invoke(ctx context.Context, prompt string) (string, error) {
	var out string
	err := g.breaker.Call(ctx, func(ctx context.Context) error {
		var callErr error
		out, callErr = g.inner.Invoke(ctx, prompt)
		return callErr
	})
	return out, err
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// QueryRequest is the JSON body for POST /api/query.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

func handleQuery(ragSvc *rag.Service, reg *metrics.Registry, logger *slog.Logger) http.HandlerFunc {
	latency := reg.Histogram("query_seconds", "Query latency in seconds.", nil)
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		start := time.Now()
		result := ragSvc.Process(r.Context(), req.Query, req.TopK)
		latency.Since(start)

		outcome := "success"
		if !result.Success {
			outcome = "failure"
			logger.Warn("query failed", "error", result.Error)
		}
		reg.Counter(metrics.WithLabels("queries_total", "outcome", outcome), "Queries by outcome.").Inc()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
