package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	gateway *domain.GatewayService
	tree    *config.Tree
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(gateway *domain.GatewayService, tree *config.Tree) *Handler {
	return &Handler{
		gateway: gateway,
		tree:    tree,
	}
}

type generateRequest struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Prompt   string         `json:"prompt"`
	Options  domain.Options `json:"options"`
}

type generateResponse struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Text     string        `json:"text"`
	Usage    *domain.Usage `json:"usage"`
	Raw      any           `json:"raw"`
}

type modelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type providerInfo struct {
	Name         string      `json:"name"`
	Enabled      bool        `json:"enabled"`
	Default      bool        `json:"default"`
	DefaultModel string      `json:"default_model,omitempty"`
	Models       []modelInfo `json:"models"`
}

// HandleGenerate processes text-generation requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Numbers stay json.Number so integer options keep their integer form in the cache key.
	var req generateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("generate request received",
		observability.String("provider", req.Provider),
		observability.String("model", req.Model),
		observability.Int("option_count", len(req.Options)),
	)

	result, err := h.gateway.Generate(ctx, req.Provider, req.Model, &domain.GenerationRequest{
		Prompt:  req.Prompt,
		Options: req.Options,
	})
	if err != nil {
		logger.Error("generate failed", observability.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	resp := generateResponse{
		Provider: result.Provider,
		Model:    result.Model,
		Text:     result.Response.Text,
		Usage:    result.Response.Usage,
		Raw:      result.Response.Raw,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Provider", result.Provider)
	w.Header().Set("X-Model", result.Model)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Error("failed to encode response", observability.Error(encodeErr))
	}
}

// HandleProviders lists the configured providers and their models.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	providers := make([]providerInfo, 0, len(h.tree.Providers))
	for _, name := range h.tree.ProviderNames() {
		settings := h.tree.Providers[name]
		info := providerInfo{
			Name:         name,
			Enabled:      settings.Enabled,
			Default:      name == h.tree.DefaultProvider,
			DefaultModel: settings.DefaultModel,
			Models:       make([]modelInfo, 0, len(settings.Models)),
		}
		for _, model := range settings.ModelNames() {
			info.Models = append(info.Models, modelInfo{
				Name:        model,
				DisplayName: settings.Models[model].DisplayName,
				Enabled:     settings.Models[model].Enabled,
			})
		}
		providers = append(providers, info)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"providers": providers}); err != nil {
		observability.FromContext(r.Context()).Error("failed to encode providers", observability.Error(err))
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func statusFor(err error) int {
	var (
		cfgErr     *domain.ConfigurationError
		unknownErr *domain.UnknownProviderError
		credErr    *domain.CredentialError
	)

	switch {
	case errors.Is(err, domain.ErrNilRequest), errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr), errors.As(err, &unknownErr), errors.As(err, &credErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
