package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/pkg/logger"
	"github.com/doeshing/codeshai/internal/ports"
)

// maxResponseBytes caps how much of a provider reply is read.
const maxResponseBytes = 4 << 20

// groqModels is the fixed list offered for Groq; the API key scope varies too
// much for a live listing to be useful.
var groqModels = []string{
	"openai/gpt-oss-120b",
	"llama-3.3-70b-versatile",
	"llama3-70b-8192",
	"llama3-8b-8192",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// Gateway is the single dispatch point for code generation. It owns
// credential checks, model resolution, deadlines and failure mapping; the
// adapters only know wire formats.
type Gateway struct {
	registry    *Registry
	credentials ports.CredentialStore
	client      *http.Client
	timeout     time.Duration
	catalogURL  string
	logger      ports.Logger
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger ports.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway wires the registry to a credential store using the budgets in cfg.
func NewGateway(registry *Registry, credentials ports.CredentialStore, cfg domain.Config, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		registry:    registry,
		credentials: credentials,
		client:      &http.Client{},
		timeout:     cfg.GetGenerationTimeout(),
		catalogURL:  cfg.GetCatalogEndpoint(),
		logger:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate performs one provider round-trip. Nothing is retried.
func (g *Gateway) Generate(ctx context.Context, req ports.GenerateRequest) (domain.GeneratedCode, error) {
	adapter, ok := g.registry.Adapter(req.Provider)
	if !ok {
		return domain.GeneratedCode{}, fmt.Errorf("unsupported provider %q", req.Provider)
	}

	credential := g.credentials.Credential(req.Provider)
	if req.Provider.RequiresCredential() && credential == "" {
		return domain.GeneratedCode{}, &domain.ConfigurationError{Provider: req.Provider}
	}

	model := g.ResolveModel(req.Provider, req.ModelOverride)

	budget := g.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < budget {
		budget = time.Until(deadline)
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	httpReq, err := adapter.BuildRequest(callCtx, req.Prompt, model, credential)
	if err != nil {
		return domain.GeneratedCode{}, fmt.Errorf("%s: %w", req.Provider, err)
	}

	g.logger.Debug("provider request", map[string]interface{}{
		"provider": req.Provider.String(),
		"model":    model,
		"endpoint": httpReq.URL.String(),
	})
	started := time.Now()

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.GeneratedCode{}, g.classify(ctx, callCtx, req.Provider, budget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.GeneratedCode{}, g.classify(ctx, callCtx, req.Provider, budget, err)
	}

	g.logger.Debug("provider response", map[string]interface{}{
		"provider": req.Provider.String(),
		"status":   resp.StatusCode,
		"elapsed":  time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.GeneratedCode{}, &domain.TransportError{
			Provider:   req.Provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return adapter.ParseResponse(body)
}

// classify maps a transport failure onto the error taxonomy. A caller
// cancellation stays a cancellation; any expired deadline, ours or the
// caller's, is a timeout.
func (g *Gateway) classify(parent, callCtx context.Context, provider domain.Provider, budget time.Duration, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", provider, parent.Err())
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		g.logger.Warn("provider request timed out", map[string]interface{}{
			"provider": provider.String(),
			"budget":   budget.String(),
		})
		return &domain.TimeoutError{Operation: fmt.Sprintf("%s request", provider), Budget: budget}
	}
	return fmt.Errorf("%s: request failed: %w", provider, err)
}

// ResolveModel picks the model: explicit override, then stored selection, then default.
func (g *Gateway) ResolveModel(provider domain.Provider, override string) string {
	if model := strings.TrimSpace(override); model != "" {
		return model
	}
	if g.credentials != nil {
		if model := g.credentials.SelectedModel(provider); model != "" {
			return model
		}
	}
	return provider.DefaultModel()
}

// IsConnected reports whether provider can be called without further setup.
func (g *Gateway) IsConnected(provider domain.Provider) bool {
	if !provider.RequiresCredential() {
		return true
	}
	return g.credentials != nil && g.credentials.Credential(provider) != ""
}

// ListModels is best-effort and never fails: Ollama is asked live, Groq has a
// fixed list, the rest expose their default model.
func (g *Gateway) ListModels(ctx context.Context, provider domain.Provider) []string {
	switch provider {
	case domain.ProviderOllama:
		return g.ListLocalModels(ctx)
	case domain.ProviderGroq:
		return StaticModels(provider)
	default:
		if model := provider.DefaultModel(); model != "" {
			return []string{model}
		}
		return []string{}
	}
}

// ListLocalModels queries the local daemon; any failure yields an empty list.
func (g *Gateway) ListLocalModels(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, domain.CatalogTimeout)
	defer cancel()

	names, err := fetchOllamaModels(ctx, g.client, g.catalogURL)
	if err != nil {
		g.logger.Debug("local model catalog unavailable", map[string]interface{}{
			"url":   g.catalogURL,
			"error": err.Error(),
		})
		return []string{}
	}
	return names
}

// StaticModels returns the built-in model list for providers that have one.
func StaticModels(provider domain.Provider) []string {
	if provider == domain.ProviderGroq {
		return append([]string(nil), groqModels...)
	}
	return nil
}

var (
	_ ports.CodeGenerator = (*Gateway)(nil)
	_ ports.ModelCatalog  = (*Gateway)(nil)
)
