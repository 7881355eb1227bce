// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the pipeline to remain independent of specific
// implementations like HTTP backends, child processes, or settings databases.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProviderAdapter, CodeExecutor)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"net/http"

	"github.com/doeshing/codeshai/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.codeshai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderAdapter is the per-backend capability set: it knows one wire format.
// Adding a backend means one new adapter plus one registry entry.
type ProviderAdapter interface {
	Provider() domain.Provider
	BuildRequest(ctx context.Context, prompt, model, credential string) (*http.Request, error)
	ParseResponse(body []byte) (domain.GeneratedCode, error)
}

// GenerateRequest is one provider round-trip as seen by the pipeline.
type GenerateRequest struct {
	Prompt        string
	Provider      domain.Provider
	ModelOverride string
}

// CodeGenerator sends a composed prompt to a provider and returns the canonical artifact.
type CodeGenerator interface {
	Generate(context.Context, GenerateRequest) (domain.GeneratedCode, error)
	ResolveModel(provider domain.Provider, override string) string
	IsConnected(provider domain.Provider) bool
}

// ModelCatalog lists models a provider can serve. Best-effort: never fails.
type ModelCatalog interface {
	ListModels(ctx context.Context, provider domain.Provider) []string
}

// CodeValidator screens generated code before it may run.
type CodeValidator interface {
	Evaluate(code string) domain.Verdict
	IsAcceptable(code string) bool
}

// CodeExecutor runs generated code in a child process. It never returns an error;
// every failure is folded into the outcome.
type CodeExecutor interface {
	Execute(ctx context.Context, req domain.ExecutionRequest) domain.ExecutionOutcome
}

// CredentialStore holds API keys and provider/model selections.
// An empty credential means "not connected".
type CredentialStore interface {
	Credential(provider domain.Provider) string
	SetCredential(provider domain.Provider, value string) error
	SelectedProvider() domain.Provider
	SetSelectedProvider(provider domain.Provider) error
	SelectedModel(provider domain.Provider) string
	SetSelectedModel(provider domain.Provider, model string) error
}

// FavoritesStore keeps frequently used requests.
type FavoritesStore interface {
	Favorites() ([]string, error)
	AddFavorite(command string) error
	RemoveFavorite(command string) error
}

// ConfirmationPrompter asks the user before generated code runs.
type ConfirmationPrompter interface {
	Confirm(pending domain.PendingRun) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
