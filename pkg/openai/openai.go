// Package openai provides OpenAI-compatible implementations of the embedding
// and generation contracts, selectable as an alternative to the Ollama
// clients.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client implements both the embed.Embedder and generation contracts against
// an OpenAI-compatible API.
type Client struct {
	api        *openai.Client
	embedModel string
	chatModel  string
	dims       int
}

// Config configures the OpenAI-compatible client.
type Config struct {
	APIKey     string
	BaseURL    string // empty uses the OpenAI default
	EmbedModel string
	ChatModel  string
	Dimension  int
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: missing API key")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = string(openai.SmallEmbedding3)
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.GPT4oMini
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 1536
	}
	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
		dims:       cfg.Dimension,
	}, nil
}

// Dimension returns the embedding model's output dimension.
func (c *Client) Dimension() int { return c.dims }

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one API call, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Invoke sends the prompt as a single user message and returns the reply.
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
