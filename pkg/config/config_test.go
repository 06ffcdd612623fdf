package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Provider != "ollama" {
		t.Fatalf("expected default provider ollama, got %q", cfg.Provider)
	}
	if cfg.TopK != 5 {
		t.Fatalf("expected default top_k 5, got %d", cfg.TopK)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "qdrant_addr: qdrant:6334\ncollection: listings\ntop_k: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QdrantAddr != "qdrant:6334" {
		t.Fatalf("yaml qdrant_addr not applied: %q", cfg.QdrantAddr)
	}
	if cfg.Collection != "listings" {
		t.Fatalf("yaml collection not applied: %q", cfg.Collection)
	}
	if cfg.TopK != 3 {
		t.Fatalf("yaml top_k not applied: %d", cfg.TopK)
	}
	// Untouched keys keep defaults.
	if cfg.Port != 8080 {
		t.Fatalf("expected default port, got %d", cfg.Port)
	}
}

func TestEnvWinsOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("collection: from_yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QDRANT_COLLECTION", "from_env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Collection != "from_env" {
		t.Fatalf("env override not applied: %q", cfg.Collection)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Collection != "properties" {
		t.Fatalf("expected default collection, got %q", cfg.Collection)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"missing qdrant", func(c *Config) { c.QdrantAddr = "" }, true},
		{"missing collection", func(c *Config) { c.Collection = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }, true},
		{"zero dimension", func(c *Config) { c.Ollama.Dimension = 0 }, true},
		{"zero top_k", func(c *Config) { c.TopK = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := defaults()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKeyEnv = "REALTYLENS_TEST_KEY"

	os.Unsetenv("REALTYLENS_TEST_KEY")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without key")
	}

	t.Setenv("REALTYLENS_TEST_KEY", "sk-test")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with key: %v", err)
	}
}
