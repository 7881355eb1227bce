package ai

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

const (
	anthropicVersion      = "2023-06-01"
	anthropicContentField = "content[0].text"
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text *string `json:"text"`
	} `json:"content"`
}

// FirstText returns the first content block's text, or false when absent.
func (a anthropicResponse) FirstText() (string, bool) {
	if len(a.Content) == 0 || a.Content[0].Text == nil {
		return "", false
	}
	return *a.Content[0].Text, true
}

// anthropicAdapter speaks the Messages API: API-key header, content blocks.
type anthropicAdapter struct {
	endpoint  string
	maxTokens int
}

func newAnthropicAdapter(endpoint string, maxTokens int) *anthropicAdapter {
	return &anthropicAdapter{
		endpoint:  valueOrDefault(endpoint, domain.ProviderClaude.Endpoint()),
		maxTokens: valueOrDefaultInt(maxTokens, domain.DefaultMaxTokens),
	}
}

func (a *anthropicAdapter) Provider() domain.Provider {
	return domain.ProviderClaude
}

func (a *anthropicAdapter) BuildRequest(ctx context.Context, prompt, model, credential string) (*http.Request, error) {
	payload := anthropicRequest{
		Model:     valueOrDefault(model, domain.ProviderClaude.DefaultModel()),
		MaxTokens: a.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	req, err := newJSONRequest(ctx, a.endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", credential)
	req.Header.Set("anthropic-version", anthropicVersion)
	return req, nil
}

func (a *anthropicAdapter) ParseResponse(body []byte) (domain.GeneratedCode, error) {
	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: domain.ProviderClaude, Field: anthropicContentField, Err: err}
	}

	text, ok := decoded.FirstText()
	if !ok {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: domain.ProviderClaude, Field: anthropicContentField}
	}
	return canonicalCode(text), nil
}

var _ ports.ProviderAdapter = (*anthropicAdapter)(nil)
