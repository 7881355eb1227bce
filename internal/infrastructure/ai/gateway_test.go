package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

type stubCredentials struct {
	keys   map[domain.Provider]string
	models map[domain.Provider]string
}

func (s *stubCredentials) Credential(p domain.Provider) string { return s.keys[p] }
func (s *stubCredentials) SetCredential(p domain.Provider, v string) error {
	s.keys[p] = v
	return nil
}
func (s *stubCredentials) SelectedProvider() domain.Provider             { return domain.ProviderDeepSeek }
func (s *stubCredentials) SetSelectedProvider(domain.Provider) error     { return nil }
func (s *stubCredentials) SelectedModel(p domain.Provider) string        { return s.models[p] }
func (s *stubCredentials) SetSelectedModel(p domain.Provider, m string) error {
	s.models[p] = m
	return nil
}

func newStubCredentials() *stubCredentials {
	return &stubCredentials{
		keys:   map[domain.Provider]string{},
		models: map[domain.Provider]string{},
	}
}

func gatewayFor(t *testing.T, provider domain.Provider, handler http.HandlerFunc, creds *stubCredentials, cfg domain.Config) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if cfg.Providers == nil {
		cfg.Providers = map[string]domain.ProviderSettings{}
	}
	cfg.Providers[string(provider)] = domain.ProviderSettings{Endpoint: server.URL, CatalogEndpoint: server.URL}
	return NewGateway(NewRegistry(cfg), creds, cfg)
}

func TestGatewayGenerateChatCompletion(t *testing.T) {
	creds := newStubCredentials()
	creds.keys[domain.ProviderDeepSeek] = "sk-live"

	var gotAuth string
	gw := gatewayFor(t, domain.ProviderDeepSeek, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```python\\nimport os\\nprint(os.listdir('.'))\\n```" + `"}}]}`))
	}, creds, domain.Config{})

	code, err := gw.Generate(context.Background(), ports.GenerateRequest{Prompt: "list files", Provider: domain.ProviderDeepSeek})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-live", gotAuth)
	assert.Equal(t, "import os\nprint(os.listdir('.'))", code.Code)
	assert.Equal(t, "Generated code", code.Description)
}

func TestGatewayMissingCredentialSkipsNetwork(t *testing.T) {
	var calls int32
	gw := gatewayFor(t, domain.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, newStubCredentials(), domain.Config{})

	_, err := gw.Generate(context.Background(), ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderOpenAI})

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, domain.ProviderOpenAI, cfgErr.Provider)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.False(t, gw.IsConnected(domain.ProviderOpenAI))
	assert.True(t, gw.IsConnected(domain.ProviderOllama))
}

func TestGatewayTransportError(t *testing.T) {
	creds := newStubCredentials()
	creds.keys[domain.ProviderClaude] = "bad"

	gw := gatewayFor(t, domain.ProviderClaude, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("  invalid api key \n"))
	}, creds, domain.Config{})

	_, err := gw.Generate(context.Background(), ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderClaude})

	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	assert.Equal(t, "invalid api key", transportErr.Body)
	assert.Contains(t, domain.Describe(err), "HTTP error 401")
}

func TestGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, newStubCredentials(), domain.Config{})
	defer close(release)
	gw.timeout = 50 * time.Millisecond

	_, err := gw.Generate(context.Background(), ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderOllama})

	var timeoutErr *domain.TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "Error generating code: request timed out. Please try again.", domain.Describe(err))
}

func TestGatewayCallerCancel(t *testing.T) {
	release := make(chan struct{})
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, newStubCredentials(), domain.Config{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := gw.Generate(ctx, ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderOllama})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	var timeoutErr *domain.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
}

func TestGatewayCallerDeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, newStubCredentials(), domain.Config{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := gw.Generate(ctx, ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderOllama})
	require.Error(t, err)
	var timeoutErr *domain.TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.LessOrEqual(t, timeoutErr.Budget, 100*time.Millisecond)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "Error generating code: request timed out. Please try again.", domain.Describe(err))
}

func TestGatewayResolveModel(t *testing.T) {
	creds := newStubCredentials()
	gw := NewGateway(NewRegistry(domain.Config{}), creds, domain.Config{})

	assert.Equal(t, "llama3-70b-8192", gw.ResolveModel(domain.ProviderGroq, ""))

	creds.models[domain.ProviderGroq] = "openai/gpt-oss-120b"
	assert.Equal(t, "openai/gpt-oss-120b", gw.ResolveModel(domain.ProviderGroq, ""))
	assert.Equal(t, "gemma2-9b-it", gw.ResolveModel(domain.ProviderGroq, " gemma2-9b-it "))
}

func TestGatewayUsesSelectedModelOnTheWire(t *testing.T) {
	creds := newStubCredentials()
	creds.models[domain.ProviderOllama] = "codellama:7b"

	var gotModel string
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		gotModel = decodeBody(t, r.Body)["model"].(string)
		_, _ = w.Write([]byte(`{"response":"print(1)"}`))
	}, creds, domain.Config{})

	_, err := gw.Generate(context.Background(), ports.GenerateRequest{Prompt: "x", Provider: domain.ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "codellama:7b", gotModel)
}

func TestGatewayListModels(t *testing.T) {
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:3b"},{"name":"qwen2.5-coder:7b"}]}`))
	}, newStubCredentials(), domain.Config{})

	assert.Equal(t, []string{"llama3.2:3b", "qwen2.5-coder:7b"}, gw.ListModels(context.Background(), domain.ProviderOllama))
	assert.Equal(t, groqModels, gw.ListModels(context.Background(), domain.ProviderGroq))
	assert.Equal(t, []string{"deepseek-chat"}, gw.ListModels(context.Background(), domain.ProviderDeepSeek))
}

func TestGatewayListLocalModelsFailureIsEmpty(t *testing.T) {
	gw := gatewayFor(t, domain.ProviderOllama, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, newStubCredentials(), domain.Config{})

	models := gw.ListLocalModels(context.Background())
	assert.NotNil(t, models)
	assert.Empty(t, models)

	unreachable := NewGateway(NewRegistry(domain.Config{}), newStubCredentials(), domain.Config{
		Providers: map[string]domain.ProviderSettings{"ollama": {CatalogEndpoint: "http://127.0.0.1:1/api/tags"}},
	})
	assert.Empty(t, unreachable.ListLocalModels(context.Background()))
}
