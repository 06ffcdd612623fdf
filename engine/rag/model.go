package rag

import (
	"context"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/engine/semantic"
)

// Searcher abstracts Qdrant vector search.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.Match, error)
}

// Generator abstracts the text-generation service.
type Generator interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ScoredProperty is a retrieved listing annotated with its relevance score.
type ScoredProperty struct {
	domain.PropertyMetadata
	Score float32 `json:"score"`
}

// Result is the discriminated outcome of one query. It is constructed fresh
// per request and never cached. A failed request carries Error and an empty
// property list; callers never see a raw fault.
type Result struct {
	Success    bool             `json:"success"`
	Response   string           `json:"response"`
	Error      string           `json:"error,omitempty"`
	Properties []ScoredProperty `json:"properties"`
}
