package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

const ollamaResponseField = "response"

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response *string `json:"response"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ollamaAdapter targets a local Ollama daemon: no credential, single-shot generate.
type ollamaAdapter struct {
	endpoint  string
	maxTokens int
}

func newOllamaAdapter(endpoint string, maxTokens int) *ollamaAdapter {
	return &ollamaAdapter{
		endpoint:  valueOrDefault(endpoint, domain.ProviderOllama.Endpoint()),
		maxTokens: valueOrDefaultInt(maxTokens, domain.DefaultMaxTokens),
	}
}

func (o *ollamaAdapter) Provider() domain.Provider {
	return domain.ProviderOllama
}

func (o *ollamaAdapter) BuildRequest(ctx context.Context, prompt, model, _ string) (*http.Request, error) {
	payload := ollamaGenerateRequest{
		Model:  valueOrDefault(model, domain.ProviderOllama.DefaultModel()),
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: domain.DefaultTemperature,
			TopP:        domain.DefaultTopP,
			MaxTokens:   o.maxTokens,
		},
	}
	return newJSONRequest(ctx, o.endpoint, payload)
}

func (o *ollamaAdapter) ParseResponse(body []byte) (domain.GeneratedCode, error) {
	var decoded ollamaGenerateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: domain.ProviderOllama, Field: ollamaResponseField, Err: err}
	}
	if decoded.Response == nil {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: domain.ProviderOllama, Field: ollamaResponseField}
	}
	return canonicalCode(*decoded.Response), nil
}

// fetchOllamaModels lists the model names a local daemon has pulled.
func fetchOllamaModels(ctx context.Context, client *http.Client, catalogURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("ollama catalog: %s", resp.Status)
	}

	var decoded ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode ollama catalog: %w", err)
	}

	names := make([]string, 0, len(decoded.Models))
	for _, m := range decoded.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

var _ ports.ProviderAdapter = (*ollamaAdapter)(nil)
