// Package generation dispatches assembled prompts to the external
// chat-completion service.
package generation

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"compass/internal/errs"
)

// Defaults target Groq's OpenAI-compatible endpoint, which the stock
// deployment uses.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultAPIKeyEnv   = "GROQ_API_KEY"
	DefaultModel       = "llama3-8b-8192"
	DefaultTemperature = 0.5
)

// Client sends a single user-role message and returns a single completion.
type Client struct {
	client      *goopenai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// Config configures the generation client. Temperature is a pointer so an
// explicit zero survives defaulting; nil means "use DefaultTemperature".
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature *float32
	Timeout     time.Duration
}

// NewClient creates a generation client. Missing credentials are a startup
// failure, not a per-request one.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, errs.Configuration(nil, "generation API key missing: set %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := float32(DefaultTemperature)
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	clientConfig := goopenai.DefaultConfig(key)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// Complete sends prompt as a single user message and returns the completion
// text. Transport failures, expired deadlines and empty responses all
// surface as generation errors; no retry is attempted here, the caller
// decides whether a request is worth repeating.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slog.Debug("generation request", "model", c.model, "prompt_len", len(prompt))

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		N:           1,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", errs.Generation(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errs.Generation(nil, "chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
