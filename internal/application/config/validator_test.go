package config

import (
	"testing"

	"github.com/doeshing/codeshai/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultProvider: "deepseek"},
		Execution:   domain.ExecutionSettings{Interpreters: []string{"python3"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr bool
	}{
		{"valid", func(*domain.Config) {}, false},
		{"unknown default provider", func(c *domain.Config) { c.Preferences.DefaultProvider = "bard" }, true},
		{"unknown provider override", func(c *domain.Config) {
			c.Providers = map[string]domain.ProviderSettings{"bard": {Endpoint: "https://x"}}
		}, true},
		{"non-http endpoint", func(c *domain.Config) {
			c.Providers = map[string]domain.ProviderSettings{"ollama": {Endpoint: "localhost:11434"}}
		}, true},
		{"http endpoint", func(c *domain.Config) {
			c.Providers = map[string]domain.ProviderSettings{"ollama": {CatalogEndpoint: "http://box:11434/api/tags"}}
		}, false},
		{"negative timeout", func(c *domain.Config) { c.Execution.TimeoutSeconds = -1 }, true},
		{"negative max tokens", func(c *domain.Config) { c.Generation.MaxTokens = -5 }, true},
		{"no interpreters", func(c *domain.Config) { c.Execution.Interpreters = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
