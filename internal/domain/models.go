package domain

// Options carries backend tuning knobs such as max_tokens or temperature.
// Values are expected to be scalars; ordering never matters.
type Options map[string]any

// GenerationRequest represents a unified text-generation request.
type GenerationRequest struct {
	Prompt  string  `json:"prompt"`
	Options Options `json:"options,omitempty"`
}

// GenerationResponse represents a unified text-generation response.
type GenerationResponse struct {
	Text  string `json:"text"`
	Raw   any    `json:"raw"`
	Usage *Usage `json:"usage"`
}

// GenerationResult pairs a response with the provider and model that produced it,
// which may differ from the requested pair after fallback.
type GenerationResult struct {
	Provider string
	Model    string
	Response *GenerationResponse
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost,omitempty"`
}

// String returns the option as a string when present and of string type.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key].(string)
	return v, ok
}

// Int returns the option as an int, accepting any numeric representation.
func (o Options) Int(key string) (int, bool) {
	f, ok := o.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Float returns the option as a float64, accepting any numeric representation.
func (o Options) Float(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
