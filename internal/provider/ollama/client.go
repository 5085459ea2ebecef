// Package ollama implements domain.Backend against the Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/httpclient"
	"github.com/davidbz/llmrouter/internal/observability"
)

const (
	// Name is the provider name this backend is registered under.
	Name = "ollama"

	// DefaultBaseURL is the hosted Ollama API root.
	DefaultBaseURL = "https://api.ollama.com"

	defaultMaxTokens = 1024
)

// Config contains the settings for one ollama backend instance.
type Config struct {
	// APIKey is sent as a bearer token when set.
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client implements domain.Backend for Ollama.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates an ollama backend. An unusable base URL is a CredentialError.
func NewClient(cfg Config) (*Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, &domain.CredentialError{Provider: Name, Credential: "api_base"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(nil)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      cfg.Model,
		httpClient: httpClient,
	}, nil
}

// normalizeBaseURL accepts both "http://host" and "http://host/api".
func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return "", fmt.Errorf("invalid base url: %s", raw)
	}

	base := strings.TrimRight(raw, "/")
	base = strings.TrimSuffix(base, "/api")
	return base, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int      `json:"num_predict"`
	Stop        string   `json:"stop,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// RawGenerate performs one non-streaming generate call.
func (c *Client) RawGenerate(
	ctx context.Context,
	prompt string,
	opts domain.Options,
) (*domain.GenerationResponse, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict: defaultMaxTokens,
		},
	}
	if maxTokens, ok := opts.Int("max_tokens"); ok && maxTokens > 0 {
		payload.Options.NumPredict = maxTokens
	}
	if stop, ok := opts.String("stop"); ok {
		payload.Options.Stop = stop
	}
	if temperature, ok := opts.Float("temperature"); ok {
		payload.Options.Temperature = &temperature
	}

	body, err := c.post(ctx, "/api/generate", payload)
	if err != nil {
		return nil, err
	}

	return toDomainResponse(body)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	observability.FromContext(ctx).Debug("calling Ollama API", observability.String("path", path))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, httpclient.TransportError(ctx, Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpclient.TransportError(ctx, Name, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, httpclient.StatusError(Name, resp.StatusCode, body)
	}

	return body, nil
}

func toDomainResponse(body []byte) (*domain.GenerationResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("ollama API returned a malformed body")
	}

	parsed := gjson.ParseBytes(body)
	text := parsed.Get("response")
	if !text.Exists() {
		return nil, errors.New("ollama API response has no response field")
	}

	promptTokens := int(parsed.Get("prompt_eval_count").Int())
	completionTokens := int(parsed.Get("eval_count").Int())

	return &domain.GenerationResponse{
		Text: text.String(),
		Raw:  parsed.Value(),
		Usage: &domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}
