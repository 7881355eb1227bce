package ai

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// systemInstruction pins chat backends to code-only output.
const systemInstruction = "You are a Python Code Generator. Your ONLY purpose is to output executable Python code. " +
	"Do NOT output any explanations, markdown, conversational text, or apologies. " +
	"If a request is unclear, generate code that prints an error message. " +
	"Return ONLY valid Python code."

const chatContentField = "choices[0].message.content"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// FirstMessage returns the first choice's content, or false when absent.
func (c chatCompletionResponse) FirstMessage() (string, bool) {
	if len(c.Choices) == 0 || c.Choices[0].Message == nil || c.Choices[0].Message.Content == nil {
		return "", false
	}
	return *c.Choices[0].Message.Content, true
}

// chatCompletionAdapter speaks the OpenAI-compatible chat format shared by
// DeepSeek, OpenAI and Groq.
type chatCompletionAdapter struct {
	provider  domain.Provider
	endpoint  string
	maxTokens int
}

func newChatCompletionAdapter(provider domain.Provider, endpoint string, maxTokens int) *chatCompletionAdapter {
	return &chatCompletionAdapter{
		provider:  provider,
		endpoint:  valueOrDefault(endpoint, provider.Endpoint()),
		maxTokens: valueOrDefaultInt(maxTokens, domain.DefaultMaxTokens),
	}
}

func (a *chatCompletionAdapter) Provider() domain.Provider {
	return a.provider
}

func (a *chatCompletionAdapter) BuildRequest(ctx context.Context, prompt, model, credential string) (*http.Request, error) {
	payload := chatCompletionRequest{
		Model: valueOrDefault(model, a.provider.DefaultModel()),
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: domain.DefaultTemperature,
		MaxTokens:   a.maxTokens,
	}

	req, err := newJSONRequest(ctx, a.endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	return req, nil
}

func (a *chatCompletionAdapter) ParseResponse(body []byte) (domain.GeneratedCode, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: a.provider, Field: chatContentField, Err: err}
	}

	content, ok := decoded.FirstMessage()
	if !ok {
		return domain.GeneratedCode{}, &domain.InvalidResponseError{Provider: a.provider, Field: chatContentField}
	}
	return canonicalCode(content), nil
}

func canonicalCode(content string) domain.GeneratedCode {
	return domain.GeneratedCode{
		Code:        StripCodeFences(content),
		Description: domain.GeneratedCodeDescription,
	}
}

var _ ports.ProviderAdapter = (*chatCompletionAdapter)(nil)
