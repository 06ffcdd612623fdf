package rag

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/realtylens/realtylens/engine/domain"
	"github.com/realtylens/realtylens/engine/semantic"
)

// --- mocks ---

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return append([]float32(nil), m.vec...), m.err
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = append([]float32(nil), m.vec...)
	}
	return out, m.err
}

func (m *mockEmbedder) Dimension() int { return len(m.vec) }

type mockSearcher struct {
	matches  []semantic.Match
	err      error
	lastTopK int
}

func (m *mockSearcher) Search(_ context.Context, _ []float32, topK int) ([]semantic.Match, error) {
	m.lastTopK = topK
	return m.matches, m.err
}

type mockGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (m *mockGenerator) Invoke(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.reply, m.err
}

func testMeta(id string, price float64) domain.PropertyMetadata {
	return domain.PropertyMetadata{
		PropertyID:      id,
		PropertyType:    "House",
		StreetAddress:   "12 Wattle St",
		Suburb:          "Richmond",
		State:           "VIC",
		Postcode:        "3121",
		Bedrooms:        3,
		Bathrooms:       2,
		Price:           price,
		YearBuilt:       "1998",
		LandSize:        "420 sqm",
		FloorArea:       "180 sqm",
		Amenities:       []string{"Pool"},
		NearbyAmenities: []string{"School"},
		Description:     "A lovely family home.",
		URL:             "https://example.com/" + id,
	}
}

func newTestService(e *mockEmbedder, s *mockSearcher, g *mockGenerator) *Service {
	return New(e, s, g, DefaultOptions(), slog.Default())
}

// --- tests ---

func TestProcess_Success(t *testing.T) {
	searcher := &mockSearcher{
		matches: []semantic.Match{
			{ID: "prop-1", Score: 0.92, Metadata: testMeta("prop-1", 850000)},
			{ID: "prop-2", Score: 0.81, Metadata: testMeta("prop-2", 700000)},
			{ID: "prop-3", Score: 0.77, Metadata: testMeta("prop-3", 650000)},
		},
	}
	gen := &mockGenerator{reply: "The house on Wattle St suits you best."}
	svc := newTestService(&mockEmbedder{vec: []float32{0.1, 0.2}}, searcher, gen)

	res := svc.Process(context.Background(), "properties with largest land size", 3)

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if searcher.lastTopK != 3 {
		t.Errorf("top_k not forwarded: got %d", searcher.lastTopK)
	}
	if res.Response != "The house on Wattle St suits you best." {
		t.Errorf("unexpected response: %q", res.Response)
	}
	if len(res.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(res.Properties))
	}
	// Store order preserved, scores attached.
	wantIDs := []string{"prop-1", "prop-2", "prop-3"}
	wantScores := []float32{0.92, 0.81, 0.77}
	for i, p := range res.Properties {
		if p.PropertyID != wantIDs[i] {
			t.Errorf("position %d: got %s, want %s", i, p.PropertyID, wantIDs[i])
		}
		if p.Score != wantScores[i] {
			t.Errorf("position %d: score %v, want %v", i, p.Score, wantScores[i])
		}
	}
}

func TestProcess_ZeroMatches(t *testing.T) {
	gen := &mockGenerator{reply: "should not be called"}
	svc := newTestService(&mockEmbedder{vec: []float32{0.1}}, &mockSearcher{}, gen)

	res := svc.Process(context.Background(), "castles on the moon", 5)

	if !res.Success {
		t.Fatal("zero matches is a success terminal state")
	}
	if res.Response == "" {
		t.Error("expected explanatory text")
	}
	if len(res.Properties) != 0 || res.Properties == nil {
		t.Errorf("expected empty non-nil property list, got %#v", res.Properties)
	}
	if gen.lastPrompt != "" {
		t.Error("generator must not be invoked when there are no matches")
	}
}

func TestProcess_DefaultTopK(t *testing.T) {
	searcher := &mockSearcher{}
	svc := newTestService(&mockEmbedder{vec: []float32{0.1}}, searcher, &mockGenerator{})

	svc.Process(context.Background(), "anything", 0)
	if searcher.lastTopK != 5 {
		t.Errorf("expected default top_k 5, got %d", searcher.lastTopK)
	}
}

func TestProcess_FailureResults(t *testing.T) {
	okSearcher := func() *mockSearcher {
		return &mockSearcher{matches: []semantic.Match{{ID: "prop-1", Score: 0.9, Metadata: testMeta("prop-1", 100)}}}
	}

	tests := []struct {
		name string
		svc  *Service
	}{
		{"embed fails", newTestService(&mockEmbedder{err: errors.New("model offline")}, okSearcher(), &mockGenerator{})},
		{"search fails", newTestService(&mockEmbedder{vec: []float32{0.1}}, &mockSearcher{err: errors.New("store down")}, &mockGenerator{})},
		{"generate fails", newTestService(&mockEmbedder{vec: []float32{0.1}}, okSearcher(), &mockGenerator{err: errors.New("llm timeout")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.svc.Process(context.Background(), "query", 5)
			if res.Success {
				t.Fatal("expected structured failure")
			}
			if res.Error == "" {
				t.Error("failure must carry an error message")
			}
			if res.Response == "" {
				t.Error("failure must carry a fallback response")
			}
			if len(res.Properties) != 0 {
				t.Errorf("failure must carry an empty property list, got %d", len(res.Properties))
			}
		})
	}
}

func TestProcess_BadMetadataSurfacesAsFailure(t *testing.T) {
	broken := testMeta("prop-1", 100)
	broken.PropertyType = ""
	searcher := &mockSearcher{matches: []semantic.Match{{ID: "prop-1", Score: 0.9, Metadata: broken}}}
	svc := newTestService(&mockEmbedder{vec: []float32{0.1}}, searcher, &mockGenerator{})

	res := svc.Process(context.Background(), "query", 5)
	if res.Success {
		t.Fatal("missing required metadata must surface as a failure")
	}
}

func TestProcess_PromptDeterminism(t *testing.T) {
	matches := []semantic.Match{
		{ID: "prop-1", Score: 0.9, Metadata: testMeta("prop-1", 850000)},
		{ID: "prop-2", Score: 0.8, Metadata: testMeta("prop-2", 700000)},
		{ID: "prop-3", Score: 0.7, Metadata: testMeta("prop-3", 650000)},
	}
	const query = "family homes near schools"

	var prompts [3]string
	for i := range prompts {
		gen := &mockGenerator{reply: "ok"}
		svc := newTestService(&mockEmbedder{vec: []float32{0.1}}, &mockSearcher{matches: matches}, gen)
		svc.Process(context.Background(), query, 3)
		prompts[i] = gen.lastPrompt
	}

	if prompts[0] == "" {
		t.Fatal("no prompt captured")
	}
	if prompts[0] != prompts[1] || prompts[1] != prompts[2] {
		t.Error("prompt must be byte-identical across repeated runs")
	}
}
