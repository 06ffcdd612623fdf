// Package rag orchestrates the retrieve-then-generate pipeline. It embeds a
// user query, retrieves the nearest listings, assembles them into a bounded
// context block, and drives the generative model for a grounded answer.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realtylens/realtylens/engine/embed"
)

// NoMatchResponse is returned when retrieval finds nothing. An empty result
// set is a valid terminal state, not an error.
const NoMatchResponse = "I couldn't find any relevant properties matching your query."

// failureResponse accompanies a structured failure result.
const failureResponse = "An error occurred while processing your query."

// Options configures the query pipeline.
type Options struct {
	TopK int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TopK: 5}
}

// Service is the query-serving pipeline. It is stateless across requests and
// safe for concurrent use as long as its clients are.
type Service struct {
	embedder embed.Embedder
	search   Searcher
	generate Generator
	opts     Options
	logger   *slog.Logger
}

// New creates a query Service from its three external collaborators.
func New(embedder embed.Embedder, search Searcher, generate Generator, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Service{
		embedder: embedder,
		search:   search,
		generate: generate,
		opts:     opts,
		logger:   logger,
	}
}

// Process runs the full pipeline for one query. topK <= 0 falls back to the
// configured default. Every internal failure is converted here, at the
// pipeline boundary, into a structured failure result.
func (s *Service) Process(ctx context.Context, query string, topK int) *Result {
	if topK <= 0 {
		topK = s.opts.TopK
	}

	result, err := s.process(ctx, query, topK)
	if err != nil {
		s.logger.Error("query pipeline failed", "err", err, "query_len", len(query))
		return &Result{
			Success:    false,
			Response:   failureResponse,
			Error:      err.Error(),
			Properties: []ScoredProperty{},
		}
	}
	return result
}

func (s *Service) process(ctx context.Context, query string, topK int) (*Result, error) {
	s.logger.Info("query start", "query_len", len(query), "top_k", topK)

	// Embed with the identical prefix and normalization used at indexing time.
	vector, err := embed.EmbedQuery(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}

	matches, err := s.search.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("rag: search: %w", err)
	}
	s.logger.Info("search done", "matches", len(matches))

	if len(matches) == 0 {
		return &Result{
			Success:    true,
			Response:   NoMatchResponse,
			Properties: []ScoredProperty{},
		}, nil
	}

	contextText, err := AssembleContext(matches)
	if err != nil {
		return nil, err
	}

	response, err := s.generate.Invoke(ctx, BuildPrompt(query, contextText))
	if err != nil {
		return nil, fmt.Errorf("rag: generate: %w", err)
	}

	// Preserve the store's ranking order; no secondary re-ranking.
	properties := make([]ScoredProperty, len(matches))
	for i, m := range matches {
		properties[i] = ScoredProperty{PropertyMetadata: m.Metadata, Score: m.Score}
	}

	return &Result{
		Success:    true,
		Response:   response,
		Properties: properties,
	}, nil
}
