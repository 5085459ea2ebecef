package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tree is the provider/model configuration. It is loaded once and never mutated.
type Tree struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one backend and the models it may serve.
type ProviderConfig struct {
	Enabled        bool                   `yaml:"enabled"`
	DefaultModel   string                 `yaml:"default_model"`
	Models         map[string]ModelConfig `yaml:"models"`
	APIBase        string                 `yaml:"api_base"`
	RateLimitRPS   float64                `yaml:"rate_limit_rps"`
	RateLimitBurst int                    `yaml:"rate_limit_burst"`
}

// ModelConfig describes one model of a provider.
type ModelConfig struct {
	Enabled         bool    `yaml:"enabled"`
	DisplayName     string  `yaml:"display_name"`
	InputCostPer1K  float64 `yaml:"input_cost_per_1k"`
	OutputCostPer1K float64 `yaml:"output_cost_per_1k"`
}

// LoadTree reads and parses the YAML tree at path.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read models config %s: %w", path, err)
	}

	tree, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("invalid models config %s: %w", path, err)
	}

	return tree, nil
}

// ParseTree parses a YAML tree. Structural checks are left to resolution time,
// where a missing default is reported as a configuration error.
func ParseTree(data []byte) (*Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if tree.Providers == nil {
		tree.Providers = make(map[string]ProviderConfig)
	}

	for name, provider := range tree.Providers {
		if name == "" {
			return nil, errors.New("provider name cannot be empty")
		}
		if provider.RateLimitRPS < 0 {
			return nil, fmt.Errorf("provider %s: rate_limit_rps cannot be negative", name)
		}
	}

	return &tree, nil
}

// Provider returns the named provider config.
func (t *Tree) Provider(name string) (ProviderConfig, bool) {
	p, ok := t.Providers[name]
	return p, ok
}

// IsAvailable reports whether both the provider and the model exist and are enabled.
func (t *Tree) IsAvailable(providerName, model string) bool {
	p, ok := t.Providers[providerName]
	if !ok || !p.Enabled {
		return false
	}
	m, ok := p.Models[model]
	return ok && m.Enabled
}

// ProviderNames lists all provider names, sorted.
func (t *Tree) ProviderNames() []string {
	names := make([]string, 0, len(t.Providers))
	for name := range t.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelNames lists the provider's model names, sorted.
func (p ProviderConfig) ModelNames() []string {
	names := make([]string, 0, len(p.Models))
	for name := range p.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
