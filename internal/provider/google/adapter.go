// Package google adapts Gemini, through its OpenAI-compatible endpoint, to the
// domain.Backend contract using the official OpenAI SDK.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/httpclient"
	"github.com/davidbz/llmrouter/internal/observability"
)

const (
	// Name is the provider name this backend is registered under.
	Name = "google"

	// DefaultBaseURL is Gemini's OpenAI-compatible API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	// CredentialEnv names the secret this backend needs.
	CredentialEnv = "GOOGLE_API_KEY"
)

// Config contains the settings for one google backend instance.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Backend implements domain.Backend for Gemini.
type Backend struct {
	client openai.Client
	model  string
}

// NewBackend creates a google backend. A missing API key is a CredentialError.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, &domain.CredentialError{Provider: Name, Credential: CredentialEnv}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Backend{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// RawGenerate performs one chat completion call.
func (b *Backend) RawGenerate(
	ctx context.Context,
	prompt string,
	opts domain.Options,
) (*domain.GenerationResponse, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling Gemini API")

	resp, err := b.client.Chat.Completions.New(ctx, b.toSDKParams(prompt, opts))
	if err != nil {
		return nil, classify(ctx, err)
	}

	logger.Debug("Gemini API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return toDomainResponse(resp), nil
}

func (b *Backend) toSDKParams(prompt string, opts domain.Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	if maxTokens, ok := opts.Int("max_tokens"); ok && maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	if temperature, ok := opts.Float("temperature"); ok {
		params.Temperature = openai.Float(temperature)
	}

	return params
}

func toDomainResponse(resp *openai.ChatCompletion) *domain.GenerationResponse {
	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	var raw any
	if payload := resp.RawJSON(); payload != "" {
		raw = gjson.Parse(payload).Value()
	}

	return &domain.GenerationResponse{
		Text: text,
		Raw:  raw,
		Usage: &domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
}

func classify(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if domain.IsTransientStatus(apiErr.StatusCode) {
			return domain.NewTransientError(Name, apiErr.StatusCode, err)
		}
		return fmt.Errorf("gemini API call failed: %w", err)
	}
	return httpclient.TransportError(ctx, Name, err)
}
