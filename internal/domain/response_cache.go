package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/davidbz/llmrouter/internal/observability"
)

// DefaultCacheTTL is the lifetime of a cached response when none is configured.
const DefaultCacheTTL = 60 * time.Second

// ResponseCache stores serialized generation responses in a CacheStore.
// A nil *ResponseCache is valid and never hits.
type ResponseCache struct {
	store CacheStore
	ttl   time.Duration
}

// NewResponseCache creates a response cache on top of store (DI constructor).
func NewResponseCache(store CacheStore, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		store: store,
		ttl:   ttl,
	}
}

// TTL returns the expiry applied to every entry.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

type cachedResponse struct {
	Text  *string `json:"text"`
	Raw   any     `json:"raw"`
	Usage *Usage  `json:"usage"`
}

// Get looks up key. Store failures are logged and reported as a miss.
// A value that does not decode into a response is returned as text only.
func (c *ResponseCache) Get(ctx context.Context, key string) (*GenerationResponse, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	logger := observability.FromContext(ctx)

	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed, continuing without cache", observability.Error(err))
		return nil, false
	}
	if !found || value == "" {
		return nil, false
	}

	var decoded cachedResponse
	decodeErr := json.Unmarshal([]byte(value), &decoded)
	if decodeErr == nil && decoded.Text == nil {
		decodeErr = errors.New("missing text field")
	}
	if decodeErr != nil {
		corruption := &CacheCorruptionError{Key: key, Err: decodeErr}
		logger.Warn("cached value is not a response, returning it as text", observability.Error(corruption))
		return &GenerationResponse{Text: value}, true
	}

	return &GenerationResponse{
		Text:  *decoded.Text,
		Raw:   decoded.Raw,
		Usage: decoded.Usage,
	}, true
}

// Set stores resp under key. When the raw payload cannot be serialized only the
// text is stored. Failures are logged and otherwise ignored.
func (c *ResponseCache) Set(ctx context.Context, key string, resp *GenerationResponse) {
	if c == nil || c.store == nil || resp == nil {
		return
	}

	logger := observability.FromContext(ctx)

	value := resp.Text
	if data, err := json.Marshal(resp); err == nil {
		value = string(data)
	} else {
		logger.Debug("response is not serializable, caching text only", observability.Error(err))
	}

	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		logger.Warn("failed to store in cache", observability.Error(err))
	}
}
