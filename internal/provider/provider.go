// Package provider wraps the OpenAI API behind the two narrow contracts the
// workflow depends on: text embedding and text generation. Calls carry a
// per-request timeout; generation retries transient failures with bounded
// exponential backoff.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client implements embedding and generation against the OpenAI API.
type Client struct {
	api    openai.Client
	cfg    *Config
	logger *slog.Logger
}

// New creates a Client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		cfg:    cfg,
		logger: logger.With("system", "provider"),
	}
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeoutDuration())
	defer cancel()

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.cfg.EmbedModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	return resp.Data[0].Embedding, nil
}

// Generate returns the completion for the given prompt. Transient failures are
// retried up to MaxRetries times with exponential backoff; the caller's
// context bounds the total attempt window.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var result string

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeoutDuration())
		defer cancel()

		resp, err := c.api.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.cfg.ChatModel),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature:         openai.Float(c.cfg.Temperature),
			MaxCompletionTokens: openai.Int(c.cfg.MaxCompletionTokens),
		})
		if err != nil {
			c.logger.Warn("generation attempt failed", "error", err)
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("no choices returned"))
		}

		result = resp.Choices[0].Message.Content
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}

	return result, nil
}
