package semantic

import "github.com/realtylens/realtylens/engine/domain"

// VectorRecord is a single listing vector to store in Qdrant.
type VectorRecord struct {
	ID        string // stable listing identifier, not the Qdrant point ID
	Embedding []float32
	Metadata  domain.PropertyMetadata
}

// Match is a single similarity search hit in store-provided rank order.
type Match struct {
	ID       string  `json:"id"`
	Score    float32 `json:"score"`
	Metadata domain.PropertyMetadata
}
