// Package domain defines core business entities and value objects for codeshai.
//
// This file contains the closed set of text-generation backends. The domain
// layer is independent of infrastructure concerns: wire formats live in the
// ai adapters, which register one implementation per Provider.
package domain

import (
	"fmt"
	"strings"
)

// Provider identifies one interchangeable text-generation backend.
type Provider string

const (
	ProviderDeepSeek Provider = "deepseek"
	ProviderOpenAI   Provider = "openai"
	ProviderClaude   Provider = "claude"
	ProviderGroq     Provider = "groq"
	ProviderOllama   Provider = "ollama"
)

// providerInfo holds the static metadata for a Provider.
type providerInfo struct {
	displayName        string
	endpoint           string
	defaultModel       string
	requiresCredential bool
	credentialURL      string
	credentialEnvVar   string
}

var providerTable = map[Provider]providerInfo{
	ProviderDeepSeek: {
		displayName:        "DeepSeek",
		endpoint:           "https://api.deepseek.com/v1/chat/completions",
		defaultModel:       "deepseek-chat",
		requiresCredential: true,
		credentialURL:      "https://platform.deepseek.com",
		credentialEnvVar:   "DEEPSEEK_API_KEY",
	},
	ProviderOpenAI: {
		displayName:        "OpenAI",
		endpoint:           "https://api.openai.com/v1/chat/completions",
		defaultModel:       "gpt-4",
		requiresCredential: true,
		credentialURL:      "https://platform.openai.com",
		credentialEnvVar:   "OPENAI_API_KEY",
	},
	ProviderClaude: {
		displayName:        "Anthropic Claude",
		endpoint:           "https://api.anthropic.com/v1/messages",
		defaultModel:       "claude-3-sonnet-20240229",
		requiresCredential: true,
		credentialURL:      "https://console.anthropic.com",
		credentialEnvVar:   "ANTHROPIC_API_KEY",
	},
	ProviderGroq: {
		displayName:        "Groq",
		endpoint:           "https://api.groq.com/openai/v1/chat/completions",
		defaultModel:       "llama3-70b-8192",
		requiresCredential: true,
		credentialURL:      "https://console.groq.com",
		credentialEnvVar:   "GROQ_API_KEY",
	},
	ProviderOllama: {
		displayName:  "Ollama (Local)",
		endpoint:     "http://localhost:11434/api/generate",
		defaultModel: "llama3.2:3b",
	},
}

// AllProviders lists every provider in display order.
func AllProviders() []Provider {
	return []Provider{ProviderDeepSeek, ProviderOpenAI, ProviderClaude, ProviderGroq, ProviderOllama}
}

// ParseProvider resolves a provider id (case-insensitive).
func ParseProvider(value string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := providerTable[p]; !ok {
		return "", fmt.Errorf("unknown provider %q", value)
	}
	return p, nil
}

// Valid reports whether p belongs to the fixed provider set.
func (p Provider) Valid() bool {
	_, ok := providerTable[p]
	return ok
}

// DisplayName returns the human readable provider name.
func (p Provider) DisplayName() string {
	if info, ok := providerTable[p]; ok {
		return info.displayName
	}
	return string(p)
}

// Endpoint returns the generation endpoint URL.
func (p Provider) Endpoint() string {
	return providerTable[p].endpoint
}

// DefaultModel returns the model identifier used when nothing else is selected.
func (p Provider) DefaultModel() string {
	return providerTable[p].defaultModel
}

// RequiresCredential reports whether an API key must be present before calling p.
func (p Provider) RequiresCredential() bool {
	if info, ok := providerTable[p]; ok {
		return info.requiresCredential
	}
	return true
}

// CredentialURL is where a user obtains an API key. Empty for local providers.
func (p Provider) CredentialURL() string {
	return providerTable[p].credentialURL
}

// CredentialEnvVar names the environment variable consulted when no key is stored.
func (p Provider) CredentialEnvVar() string {
	return providerTable[p].credentialEnvVar
}

// IsLocal reports whether p is the resource-constrained local backend.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

func (p Provider) String() string {
	return string(p)
}
