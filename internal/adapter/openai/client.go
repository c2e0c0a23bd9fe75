package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Config is the request shape sent for every completion.
type Config struct {
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int64
	// Timeout bounds a single call; zero leaves it to the caller's context.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:1234/v1",
		APIKey:      "not-needed",
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("openai: base URL is required")
	}
	if c.MaxTokens <= 0 {
		return errors.New("openai: max tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("openai: temperature %.2f out of range [0, 2]", c.Temperature)
	}
	return nil
}

// Client implements port/generation.Generator against any OpenAI-compatible
// chat-completion endpoint (LM Studio, Ollama, vLLM, OpenAI).
type Client struct {
	client  openaisdk.Client
	config  Config
	catalog Catalog
}

func NewClient(config Config, catalog Catalog) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
		// A failed call fails the run; the caller decides what to do next.
		option.WithMaxRetries(0),
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	return &Client{
		client:  openaisdk.NewClient(opts...),
		config:  config,
		catalog: catalog,
	}, nil
}

func (c *Client) ResolveModel(key string) string {
	return c.catalog.Resolve(key)
}

func (c *Client) Catalog() Catalog { return c.catalog }

// Generate sends prompt as the sole system message and returns the first
// choice's content.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = c.catalog.Default
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(prompt),
		},
		Temperature: openaisdk.Float(c.config.Temperature),
		MaxTokens:   openaisdk.Int(c.config.MaxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion %s: status %d: %w", model, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("chat completion %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion %s: response has no choices", model)
	}
	return resp.Choices[0].Message.Content, nil
}
