package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/doeshing/codeshai/internal/domain"
)

// TestConfig_GetDefaultProvider tests resolving the default provider
func TestConfig_GetDefaultProvider(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		want      domain.Provider
		wantError bool
	}{
		{
			name:   "falls back to deepseek when unset",
			config: domain.Config{},
			want:   domain.ProviderDeepSeek,
		},
		{
			name:   "parses configured provider case-insensitively",
			config: domain.Config{Preferences: domain.Preferences{DefaultProvider: "Ollama"}},
			want:   domain.ProviderOllama,
		},
		{
			name:      "rejects unknown provider",
			config:    domain.Config{Preferences: domain.Preferences{DefaultProvider: "mistral"}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.GetDefaultProvider()
			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// TestConfig_GetEndpoint tests endpoint overrides
func TestConfig_GetEndpoint(t *testing.T) {
	cfg := domain.Config{
		Providers: map[string]domain.ProviderSettings{
			"ollama": {Endpoint: "http://gpu-box:11434/api/generate", CatalogEndpoint: "http://gpu-box:11434/api/tags"},
		},
	}

	if got := cfg.GetEndpoint(domain.ProviderOllama); got != "http://gpu-box:11434/api/generate" {
		t.Errorf("ollama endpoint = %s", got)
	}
	if got := cfg.GetEndpoint(domain.ProviderOpenAI); got != domain.ProviderOpenAI.Endpoint() {
		t.Errorf("openai endpoint = %s", got)
	}
	if got := cfg.GetCatalogEndpoint(); got != "http://gpu-box:11434/api/tags" {
		t.Errorf("catalog endpoint = %s", got)
	}
	if got := (&domain.Config{}).GetCatalogEndpoint(); got != domain.DefaultLocalCatalogURL {
		t.Errorf("default catalog endpoint = %s", got)
	}
}

// TestConfig_Defaults tests fallback values for unset numeric settings
func TestConfig_Defaults(t *testing.T) {
	var cfg domain.Config

	if got := cfg.GetGenerationTimeout(); got != 120*time.Second {
		t.Errorf("generation timeout = %s", got)
	}
	if got := cfg.GetExecutionTimeout(); got != 120*time.Second {
		t.Errorf("execution timeout = %s", got)
	}
	if got := cfg.GetMaxTokens(); got != 1000 {
		t.Errorf("max tokens = %d", got)
	}
	if got := cfg.GetInterpreters(); fmt.Sprint(got) != "[python python3 py]" {
		t.Errorf("interpreters = %v", got)
	}

	cfg.Execution.Interpreters = []string{"bash"}
	cfg.Execution.TimeoutSeconds = 5
	if got := cfg.GetInterpreters(); fmt.Sprint(got) != "[bash]" {
		t.Errorf("interpreters = %v", got)
	}
	if got := cfg.GetExecutionTimeout(); got != 5*time.Second {
		t.Errorf("execution timeout = %s", got)
	}
}

// TestConfig_ValidateConsistency tests configuration consistency validation
func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name:   "valid configuration",
			config: domain.Config{Preferences: domain.Preferences{DefaultProvider: "claude"}},
		},
		{
			name:      "invalid: unknown default provider",
			config:    domain.Config{Preferences: domain.Preferences{DefaultProvider: "nope"}},
			wantError: true,
		},
		{
			name: "invalid: unknown provider override",
			config: domain.Config{
				Providers: map[string]domain.ProviderSettings{"nope": {Endpoint: "http://x"}},
			},
			wantError: true,
		},
		{
			name:      "invalid: negative timeout",
			config:    domain.Config{Execution: domain.ExecutionSettings{TimeoutSeconds: -1}},
			wantError: true,
		},
		{
			name:      "invalid: empty interpreter",
			config:    domain.Config{Execution: domain.ExecutionSettings{Interpreters: []string{"python", ""}}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProvider_Metadata(t *testing.T) {
	for _, p := range domain.AllProviders() {
		if !p.Valid() || p.Endpoint() == "" || p.DefaultModel() == "" || p.DisplayName() == "" {
			t.Errorf("incomplete metadata for %s", p)
		}
		if p.RequiresCredential() == p.IsLocal() {
			t.Errorf("%s: credential requirement should be the inverse of locality", p)
		}
	}
	if domain.ProviderOllama.CredentialURL() != "" {
		t.Error("local provider should not have a credential URL")
	}
	if _, err := domain.ParseProvider("bogus"); err == nil {
		t.Error("expected parse error")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&domain.TimeoutError{Operation: "generation", Budget: time.Second}, "Error generating code: request timed out. Please try again."},
		{fmt.Errorf("wrap: %w", domain.ErrBusy), "Error: a request is already running"},
		{context.Canceled, "Error: request cancelled"},
		{errors.New("boom"), "Error generating code: boom"},
	}
	for _, tt := range tests {
		if got := domain.Describe(tt.err); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	cfgErr := domain.Describe(&domain.ConfigurationError{Provider: domain.ProviderGroq})
	if cfgErr == "" || !errors.Is(&domain.TimeoutError{}, context.DeadlineExceeded) {
		t.Errorf("unexpected configuration error text %q", cfgErr)
	}
}
