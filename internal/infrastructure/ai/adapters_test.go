package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/codeshai/internal/domain"
)

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}

func TestChatCompletionAdapterBuildRequest(t *testing.T) {
	adapter := newChatCompletionAdapter(domain.ProviderDeepSeek, "", 0)

	req, err := adapter.BuildRequest(context.Background(), "list files", "", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, domain.ProviderDeepSeek.Endpoint(), req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))

	payload := decodeBody(t, req.Body)
	assert.Equal(t, "deepseek-chat", payload["model"])
	assert.Equal(t, 0.1, payload["temperature"])
	assert.Equal(t, float64(domain.DefaultMaxTokens), payload["max_tokens"])

	messages, ok := payload["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]interface{})
	user := messages[1].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, systemInstruction, system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "list files", user["content"])
}

func TestChatCompletionAdapterParseResponse(t *testing.T) {
	adapter := newChatCompletionAdapter(domain.ProviderOpenAI, "", 0)

	code, err := adapter.ParseResponse([]byte(`{"choices":[{"message":{"content":"` + "```python\\nprint(1)\\n```" + `"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "print(1)", code.Code)
	assert.Equal(t, domain.GeneratedCodeDescription, code.Description)

	for name, body := range map[string]string{
		"no choices":   `{"choices":[]}`,
		"null content": `{"choices":[{"message":{"content":null}}]}`,
		"no message":   `{"choices":[{}]}`,
		"not json":     `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := adapter.ParseResponse([]byte(body))
			var invalid *domain.InvalidResponseError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, chatContentField, invalid.Field)
			assert.Equal(t, domain.ProviderOpenAI, invalid.Provider)
		})
	}
}

func TestAnthropicAdapterRoundTrip(t *testing.T) {
	adapter := newAnthropicAdapter("http://claude.test/v1/messages", 256)

	req, err := adapter.BuildRequest(context.Background(), "count files", "claude-x", "ak-test")
	require.NoError(t, err)
	assert.Equal(t, "http://claude.test/v1/messages", req.URL.String())
	assert.Equal(t, "ak-test", req.Header.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, req.Header.Get("anthropic-version"))
	assert.Empty(t, req.Header.Get("Authorization"))

	payload := decodeBody(t, req.Body)
	assert.Equal(t, "claude-x", payload["model"])
	assert.Equal(t, float64(256), payload["max_tokens"])
	_, hasSystem := payload["system"]
	assert.False(t, hasSystem)

	code, err := adapter.ParseResponse([]byte(`{"content":[{"type":"text","text":"  import os\n"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "import os", code.Code)

	_, err = adapter.ParseResponse([]byte(`{"content":[]}`))
	var invalid *domain.InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, anthropicContentField, invalid.Field)
}

func TestOllamaAdapterRoundTrip(t *testing.T) {
	adapter := newOllamaAdapter("", 0)

	req, err := adapter.BuildRequest(context.Background(), "show disk", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderOllama.Endpoint(), req.URL.String())
	assert.Empty(t, req.Header.Get("Authorization"))

	payload := decodeBody(t, req.Body)
	assert.Equal(t, "llama3.2:3b", payload["model"])
	assert.Equal(t, "show disk", payload["prompt"])
	assert.Equal(t, false, payload["stream"])
	options := payload["options"].(map[string]interface{})
	assert.Equal(t, 0.1, options["temperature"])
	assert.Equal(t, 0.9, options["top_p"])
	assert.Equal(t, float64(1000), options["max_tokens"])

	code, err := adapter.ParseResponse([]byte(`{"response":"` + "```\\nprint(2)\\n```" + `","done":true}`))
	require.NoError(t, err)
	assert.Equal(t, "print(2)", code.Code)

	_, err = adapter.ParseResponse([]byte(`{"done":true}`))
	var invalid *domain.InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, ollamaResponseField, invalid.Field)
}

func TestRegistryCoversEveryProvider(t *testing.T) {
	registry := NewRegistry(domain.Config{
		Providers: map[string]domain.ProviderSettings{
			"groq": {Endpoint: "http://groq.test/chat"},
		},
	})

	for _, p := range domain.AllProviders() {
		adapter, ok := registry.Adapter(p)
		require.True(t, ok, "missing adapter for %s", p)
		assert.Equal(t, p, adapter.Provider())
	}

	groq, _ := registry.Adapter(domain.ProviderGroq)
	req, err := groq.BuildRequest(context.Background(), "x", "", "k")
	require.NoError(t, err)
	assert.Equal(t, "http://groq.test/chat", req.URL.String())
}
