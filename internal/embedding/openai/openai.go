// Package openai implements the embedding adapter against any
// OpenAI-compatible embeddings endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"compass/internal/errs"
)

// Client embeds text through an OpenAI-compatible API. It is immutable
// after Prepare, so concurrent requests share it without coordination.
type Client struct {
	client     *goopenai.Client
	model      string
	timeout    time.Duration
	dimensions int
}

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates an embeddings client. A missing API key means the model
// cannot be used at all, so it is reported as a model-load failure rather
// than deferred to the first request.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, errs.ModelLoad(nil, "embedding API key missing: set %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientConfig := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client:  goopenai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Prepare resolves the model's dimensionality with a single embedding call
// so the client never writes to itself once requests start flowing. It runs
// during startup; a failure here is surfaced as a model-load condition by
// the caller.
func (c *Client) Prepare(corpus []string) error {
	if c.dimensions != 0 {
		return nil
	}
	sample := "dimensionality check"
	if len(corpus) > 0 {
		sample = corpus[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{sample},
		Model: goopenai.EmbeddingModel(c.model),
	})
	if err != nil {
		return fmt.Errorf("resolve embedding dimensionality: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return errors.New("resolve embedding dimensionality: empty embedding response")
	}
	c.dimensions = len(resp.Data[0].Embedding)
	return nil
}

// Dimensions returns the dimensionality of the produced embedding vectors,
// or 0 before Prepare has run.
func (c *Client) Dimensions() int { return c.dimensions }

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if c.dimensions != 0 && len(data.Embedding) != c.dimensions {
			return nil, fmt.Errorf("embedding dimension drift: expected %d, got %d", c.dimensions, len(data.Embedding))
		}
		vectors[i] = data.Embedding
	}
	return vectors, nil
}
