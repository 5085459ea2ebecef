// Package openrouter implements domain.Backend against OpenRouter's
// OpenAI-compatible chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/httpclient"
	"github.com/davidbz/llmrouter/internal/observability"
)

const (
	// Name is the provider name this backend is registered under.
	Name = "openrouter"

	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	defaultMaxTokens = 1024
)

// Config contains the settings for one openrouter backend instance.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Backend implements domain.Backend for OpenRouter.
type Backend struct {
	api   *openai.Client
	model string
}

// NewBackend creates an openrouter backend. The model is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Model == "" {
		return nil, &domain.CredentialError{Provider: Name, Credential: "model"}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	clientCfg.HTTPClient = &bodyRecorder{doer: clientCfg.HTTPClient}

	return &Backend{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
	}, nil
}

// RawGenerate performs one chat completion call.
func (b *Backend) RawGenerate(
	ctx context.Context,
	prompt string,
	opts domain.Options,
) (*domain.GenerationResponse, error) {
	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: defaultMaxTokens,
	}
	if maxTokens, ok := opts.Int("max_tokens"); ok && maxTokens > 0 {
		req.MaxTokens = maxTokens
	}
	if temperature, ok := opts.Float("temperature"); ok {
		req.Temperature = float32(temperature)
	}
	if stop, ok := opts.String("stop"); ok && stop != "" {
		req.Stop = []string{stop}
	}

	observability.FromContext(ctx).Debug("calling OpenRouter API")

	var body []byte
	resp, err := b.api.CreateChatCompletion(context.WithValue(ctx, rawBodyKey{}, &body), req)
	if err != nil {
		return nil, classify(ctx, err)
	}

	// Some upstreams answer in the legacy completion shape with a top-level text.
	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	} else {
		text = gjson.GetBytes(body, "text").String()
	}

	return &domain.GenerationResponse{
		Text: text,
		Raw:  resp,
		Usage: &domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func classify(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return statusError(reqErr.HTTPStatusCode, err)
	}

	return httpclient.TransportError(ctx, Name, err)
}

func statusError(statusCode int, err error) error {
	if domain.IsTransientStatus(statusCode) {
		return domain.NewTransientError(Name, statusCode, err)
	}
	return fmt.Errorf("openrouter API call failed: %w", err)
}

type rawBodyKey struct{}

// bodyRecorder copies the response body into the slice the request context
// carries under rawBodyKey, then hands go-openai an equivalent reader.
type bodyRecorder struct {
	doer openai.HTTPDoer
}

func (r *bodyRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.doer.Do(req)
	if err != nil {
		return resp, err
	}

	sink, ok := req.Context().Value(rawBodyKey{}).(*[]byte)
	if !ok {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	*sink = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
