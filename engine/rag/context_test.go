package rag

import (
	"strings"
	"testing"

	"github.com/realtylens/realtylens/engine/semantic"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{450000.5, "$450,000.50"},
		{850000, "$850,000.00"},
		{1250000.75, "$1,250,000.75"},
		{999.99, "$999.99"},
		{0, "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssembleContext_FieldOrderAndIndexing(t *testing.T) {
	matches := []semantic.Match{
		{ID: "prop-1", Score: 0.9, Metadata: testMeta("prop-1", 850000)},
		{ID: "prop-2", Score: 0.8, Metadata: testMeta("prop-2", 700000)},
	}
	text, err := AssembleContext(matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(text, "Here are the relevant properties:\n\n") {
		t.Error("missing context header")
	}
	p1 := strings.Index(text, "Property 1:")
	p2 := strings.Index(text, "Property 2:")
	if p1 < 0 || p2 < 0 || p2 < p1 {
		t.Errorf("paragraphs must be 1-indexed and ordered: p1=%d p2=%d", p1, p2)
	}

	// Fixed field order within a paragraph.
	fields := []string{"- Type:", "- Location:", "- Bedrooms:", "- Bathrooms:", "- Year Built:", "- Land Size:", "- Floor Area:", "- Price:"}
	pos := p1
	for _, f := range fields {
		next := strings.Index(text[pos:], f)
		if next < 0 {
			t.Fatalf("field %q missing or out of order", f)
		}
		pos += next
	}

	if !strings.Contains(text, "- Price: $850,000.00") {
		t.Error("price not currency-formatted")
	}
	if !strings.Contains(text, "- Amenities: Pool") {
		t.Error("amenities not rendered")
	}
	if !strings.Contains(text, "- Nearby: School") {
		t.Error("nearby amenities not rendered")
	}
}

func TestAssembleContext_PriceDistinguishesMatches(t *testing.T) {
	a := testMeta("prop-1", 450000.5)
	b := testMeta("prop-1", 450000.6)
	textA, err := AssembleContext([]semantic.Match{{ID: "prop-1", Metadata: a}})
	if err != nil {
		t.Fatal(err)
	}
	textB, err := AssembleContext([]semantic.Match{{ID: "prop-1", Metadata: b}})
	if err != nil {
		t.Fatal(err)
	}
	if textA == textB {
		t.Error("matches differing only in price must render differently")
	}
	if !strings.Contains(textA, "$450,000.50") {
		t.Errorf("expected $450,000.50 in:\n%s", textA)
	}
}

func TestAssembleContext_OptionalFieldsSkipped(t *testing.T) {
	meta := testMeta("prop-1", 100000)
	meta.Amenities = []string{}
	meta.NearbyAmenities = []string{}
	meta.Description = ""
	meta.URL = ""

	text, err := AssembleContext([]semantic.Match{{ID: "prop-1", Metadata: meta}})
	if err != nil {
		t.Fatalf("empty optional fields must not fail: %v", err)
	}
	for _, forbidden := range []string{"- Amenities:", "- Nearby:", "- Description:", "- URL:"} {
		if strings.Contains(text, forbidden) {
			t.Errorf("empty optional field rendered: %s", forbidden)
		}
	}
}

func TestAssembleContext_RequiredFieldMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*semantic.Match)
	}{
		{"no type", func(m *semantic.Match) { m.Metadata.PropertyType = "" }},
		{"no street", func(m *semantic.Match) { m.Metadata.StreetAddress = "" }},
		{"no suburb", func(m *semantic.Match) { m.Metadata.Suburb = "" }},
		{"no state", func(m *semantic.Match) { m.Metadata.State = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := semantic.Match{ID: "prop-1", Metadata: testMeta("prop-1", 100)}
			tt.mutate(&m)
			if _, err := AssembleContext([]semantic.Match{m}); err == nil {
				t.Error("expected error for missing required field")
			}
		})
	}
}

func TestBuildPrompt_ContainsQueryAndContext(t *testing.T) {
	prompt := BuildPrompt("homes near the beach", "CONTEXT-BLOCK")
	if !strings.Contains(prompt, "User Query: homes near the beach") {
		t.Error("prompt missing literal query")
	}
	if !strings.Contains(prompt, "CONTEXT-BLOCK") {
		t.Error("prompt missing context")
	}
	// The seven response-shaping directives.
	for _, n := range []string{"1.", "2.", "3.", "4.", "5.", "6.", "7."} {
		if !strings.Contains(prompt, "\n"+n+" ") {
			t.Errorf("prompt missing directive %s", n)
		}
	}
}
