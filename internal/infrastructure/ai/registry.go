package ai

import (
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// Registry maps every provider to its wire adapter.
type Registry struct {
	adapters map[domain.Provider]ports.ProviderAdapter
}

// NewRegistry builds the adapters for the fixed provider set, honoring
// endpoint overrides and the token cap from cfg.
func NewRegistry(cfg domain.Config) *Registry {
	maxTokens := cfg.GetMaxTokens()
	r := &Registry{adapters: make(map[domain.Provider]ports.ProviderAdapter)}

	for _, p := range []domain.Provider{domain.ProviderDeepSeek, domain.ProviderOpenAI, domain.ProviderGroq} {
		r.Register(newChatCompletionAdapter(p, cfg.GetEndpoint(p), maxTokens))
	}
	r.Register(newAnthropicAdapter(cfg.GetEndpoint(domain.ProviderClaude), maxTokens))
	r.Register(newOllamaAdapter(cfg.GetEndpoint(domain.ProviderOllama), maxTokens))
	return r
}

// Register installs or replaces the adapter for its provider.
func (r *Registry) Register(adapter ports.ProviderAdapter) {
	r.adapters[adapter.Provider()] = adapter
}

// Adapter returns the adapter for p.
func (r *Registry) Adapter(p domain.Provider) (ports.ProviderAdapter, bool) {
	adapter, ok := r.adapters[p]
	return adapter, ok
}
