package embed

import (
	"context"
	"math"
	"testing"
)

type captureEmbedder struct {
	lastTexts []string
}

func (c *captureEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.lastTexts = []string{text}
	return []float32{3, 4}, nil
}

func (c *captureEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.lastTexts = texts
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{3, 4}
	}
	return out, nil
}

func (c *captureEmbedder) Dimension() int { return 2 }

func l2(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalize_UnitLength(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if got := l2(v); math.Abs(got-1) > 1e-6 {
		t.Errorf("length = %v, want 1", got)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("unexpected components: %v", v)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	for _, x := range v {
		if x != 0 {
			t.Fatalf("zero vector must stay zero, got %v", v)
		}
	}
}

func TestEmbedQuery_PrefixAndNormalize(t *testing.T) {
	e := &captureEmbedder{}
	vec, err := EmbedQuery(context.Background(), e, "houses with a pool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.lastTexts[0] != "query: houses with a pool" {
		t.Errorf("prefix not applied: %q", e.lastTexts[0])
	}
	if got := l2(vec); math.Abs(got-1) > 1e-6 {
		t.Errorf("query vector not normalized, length %v", got)
	}
}

func TestEmbedDocs_PrefixAndNormalize(t *testing.T) {
	e := &captureEmbedder{}
	vecs, err := EmbedDocs(context.Background(), e, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, text := range e.lastTexts {
		if text[:7] != "query: " {
			t.Errorf("text %d missing prefix: %q", i, text)
		}
	}
	for i, v := range vecs {
		if got := l2(v); math.Abs(got-1) > 1e-6 {
			t.Errorf("vector %d not normalized, length %v", i, got)
		}
	}
}
