// Package echo provides an in-process backend that returns the prompt as the
// generated text. It makes no external calls, which makes it useful for local
// development and end-to-end tests of the provider layer.
package echo

import (
	"context"
	"strings"

	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/observability"
)

// Name is the provider name this backend is registered under.
const Name = "echo"

// Backend implements domain.Backend by echoing the prompt.
type Backend struct {
	model string
}

// NewBackend creates an echo backend for model.
// No configuration is required as this backend operates entirely in-memory.
func NewBackend(model string) *Backend {
	return &Backend{
		model: model,
	}
}

// RawGenerate returns the prompt unchanged.
func (b *Backend) RawGenerate(
	ctx context.Context,
	prompt string,
	opts domain.Options,
) (*domain.GenerationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := prompt
	if maxTokens, ok := opts.Int("max_tokens"); ok && maxTokens > 0 {
		text = truncateWords(text, maxTokens)
	}

	promptTokens := countTokens(prompt)
	completionTokens := countTokens(text)

	observability.FromContext(ctx).Debug("echo completed",
		observability.Int("prompt_tokens", promptTokens),
		observability.Int("completion_tokens", completionTokens),
	)

	return &domain.GenerationResponse{
		Text: text,
		Raw: map[string]any{
			"model": b.model,
			"echo":  text,
		},
		Usage: &domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	return len(strings.Fields(content))
}

func truncateWords(content string, limit int) string {
	words := strings.Fields(content)
	if len(words) <= limit {
		return content
	}
	return strings.Join(words[:limit], " ")
}
