// Package config loads service configuration from an optional YAML file,
// a .env file, and environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OllamaConfig configures the local Ollama provider.
type OllamaConfig struct {
	BaseURL    string `yaml:"base_url"`
	EmbedModel string `yaml:"embed_model"`
	ChatModel  string `yaml:"chat_model"`
	Dimension  int    `yaml:"dimension"`
}

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKeyEnv  string `yaml:"api_key_env"`
	BaseURL    string `yaml:"base_url"`
	EmbedModel string `yaml:"embed_model"`
	ChatModel  string `yaml:"chat_model"`
	Dimension  int    `yaml:"dimension"`
}

// Config is the root configuration for all binaries.
type Config struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	CORSOrigin  string `yaml:"cors_origin"`

	QdrantAddr string `yaml:"qdrant_addr"`
	Collection string `yaml:"collection"`

	NATSURL string `yaml:"nats_url"`

	// Provider selects the model backend: "ollama" or "openai".
	Provider string       `yaml:"provider"`
	Ollama   OllamaConfig `yaml:"ollama"`
	OpenAI   OpenAIConfig `yaml:"openai"`

	TopK int `yaml:"top_k"`
}

func defaults() Config {
	return Config{
		Port:        8080,
		MetricsPort: 9090,
		CORSOrigin:  "*",
		QdrantAddr:  "localhost:6334",
		Collection:  "properties",
		NATSURL:     "nats://localhost:4222",
		Provider:    "ollama",
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			EmbedModel: "intfloat/e5-base-v2",
			ChatModel:  "llama3.1",
			Dimension:  768,
		},
		OpenAI: OpenAIConfig{
			APIKeyEnv:  "OPENAI_API_KEY",
			EmbedModel: "text-embedding-3-small",
			ChatModel:  "gpt-4o-mini",
			Dimension:  1536,
		},
		TopK: 5,
	}
}

// Load reads configuration. An empty path skips the YAML layer; a missing
// file at the given path is not an error.
func Load(path string) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envInt("PORT", &cfg.Port)
	envInt("METRICS_PORT", &cfg.MetricsPort)
	envStr("CORS_ORIGIN", &cfg.CORSOrigin)
	envStr("QDRANT_ADDR", &cfg.QdrantAddr)
	envStr("QDRANT_COLLECTION", &cfg.Collection)
	envStr("NATS_URL", &cfg.NATSURL)
	envStr("MODEL_PROVIDER", &cfg.Provider)
	envStr("OLLAMA_URL", &cfg.Ollama.BaseURL)
	envStr("OLLAMA_EMBED_MODEL", &cfg.Ollama.EmbedModel)
	envStr("OLLAMA_CHAT_MODEL", &cfg.Ollama.ChatModel)
	envInt("EMBED_DIMENSION", &cfg.Ollama.Dimension)
	envStr("OPENAI_BASE_URL", &cfg.OpenAI.BaseURL)
	envStr("OPENAI_EMBED_MODEL", &cfg.OpenAI.EmbedModel)
	envStr("OPENAI_CHAT_MODEL", &cfg.OpenAI.ChatModel)
	envInt("TOP_K", &cfg.TopK)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// APIKey resolves the OpenAI API key from the configured environment variable.
func (c OpenAIConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv(c.APIKeyEnv)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.QdrantAddr == "" {
		return errors.New("config: qdrant address is required")
	}
	if c.Collection == "" {
		return errors.New("config: collection name is required")
	}
	switch c.Provider {
	case "ollama":
		if c.Ollama.BaseURL == "" || c.Ollama.EmbedModel == "" || c.Ollama.ChatModel == "" {
			return errors.New("config: ollama base URL and models are required")
		}
		if c.Ollama.Dimension <= 0 {
			return errors.New("config: embedding dimension must be positive")
		}
	case "openai":
		if c.OpenAI.APIKey() == "" {
			return errors.New("config: openai API key is not set")
		}
		if c.OpenAI.Dimension <= 0 {
			return errors.New("config: embedding dimension must be positive")
		}
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.TopK <= 0 {
		return errors.New("config: top_k must be positive")
	}
	return nil
}
