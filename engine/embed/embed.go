// Package embed defines the embedding contract shared by the ingestion and
// query pipelines. Both paths must use the same model, the same text prefix,
// and the same normalization, or store rankings silently degrade.
package embed

import (
	"context"
	"math"
)

// Prefix is prepended to every text before embedding. The e5 model family
// expects it on queries, and the corpus was indexed with it, so it is applied
// on both paths.
const Prefix = "query: "

// Embedder converts text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// WithPrefix applies the shared embedding prefix.
func WithPrefix(text string) string {
	return Prefix + text
}

// Normalize scales v to unit L2 length in place and returns it, so that inner
// product and cosine similarity coincide. A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// EmbedQuery embeds a single text with the shared prefix and normalization.
func EmbedQuery(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vec, err := e.Embed(ctx, WithPrefix(text))
	if err != nil {
		return nil, err
	}
	return Normalize(vec), nil
}

// EmbedDocs embeds a batch of texts with the shared prefix and normalization.
func EmbedDocs(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = WithPrefix(t)
	}
	vecs, err := e.EmbedBatch(ctx, prefixed)
	if err != nil {
		return nil, err
	}
	for i := range vecs {
		vecs[i] = Normalize(vecs[i])
	}
	return vecs, nil
}
