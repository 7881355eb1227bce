// Package pipeline coordinates one generate/confirm/execute cycle at a time
// and owns the conversation history used as prompt context.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/doeshing/codeshai/internal/application/prompt"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// Dependencies are the collaborators a Service needs.
type Dependencies struct {
	Generator   ports.CodeGenerator
	Validator   ports.CodeValidator
	Executor    ports.CodeExecutor
	Credentials ports.CredentialStore
	Logger      ports.Logger
	// RequireValidation makes the validator a hard gate; when false a
	// rejected verdict is only logged.
	RequireValidation bool
	// DefaultProvider is used when neither the request nor the store names one.
	DefaultProvider domain.Provider
}

// GenerateOptions overrides provider and model for one request.
type GenerateOptions struct {
	Provider domain.Provider
	Model    string
}

// Service is the pipeline coordinator. All methods are safe for concurrent
// use; at most one generation or execution is in flight.
type Service struct {
	deps Dependencies

	mu      sync.Mutex
	state   domain.PipelineState
	pending *domain.PendingRun
	history *domain.HistoryRing
}

// NewService builds an idle coordinator with an empty history.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Generator == nil || deps.Validator == nil || deps.Executor == nil || deps.Logger == nil {
		return nil, errors.New("pipeline.Service dependencies not satisfied")
	}
	if deps.DefaultProvider == "" {
		deps.DefaultProvider = domain.ProviderDeepSeek
	}
	return &Service{
		deps:    deps,
		state:   domain.StateIdle,
		history: domain.NewHistoryRing(),
	}, nil
}

// State reports the current pipeline state.
func (s *Service) State() domain.PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ResolveProvider picks the provider for a request: explicit, stored selection, default.
func (s *Service) ResolveProvider(explicit domain.Provider) domain.Provider {
	if explicit.Valid() {
		return explicit
	}
	if s.deps.Credentials != nil {
		if selected := s.deps.Credentials.SelectedProvider(); selected.Valid() {
			return selected
		}
	}
	return s.deps.DefaultProvider
}

// Generate composes a prompt from request and the current history, calls the
// provider and leaves the result awaiting confirmation. A pending artifact
// from an earlier call is replaced. Failures are returned, not recorded.
func (s *Service) Generate(ctx context.Context, request string, opts GenerateOptions) (domain.PendingRun, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return domain.PendingRun{}, domain.ErrEmptyRequest
	}

	s.mu.Lock()
	if s.state == domain.StateGenerating || s.state == domain.StateExecuting {
		s.mu.Unlock()
		return domain.PendingRun{}, domain.ErrBusy
	}
	s.state = domain.StateGenerating
	s.pending = nil
	history := s.history.Snapshot()
	s.mu.Unlock()

	provider := s.ResolveProvider(opts.Provider)
	model := s.deps.Generator.ResolveModel(provider, opts.Model)

	s.deps.Logger.Info("generating code", map[string]interface{}{
		"provider": provider.String(),
		"model":    model,
		"history":  len(history),
	})

	code, err := s.deps.Generator.Generate(ctx, ports.GenerateRequest{
		Prompt:        prompt.Compose(request, provider, history),
		Provider:      provider,
		ModelOverride: model,
	})
	if err != nil {
		s.setState(domain.StateIdle)
		s.deps.Logger.Warn("generation failed", map[string]interface{}{
			"provider": provider.String(),
			"error":    err.Error(),
		})
		return domain.PendingRun{}, err
	}

	run := domain.PendingRun{
		Request:  request,
		Provider: provider,
		Model:    model,
		Code:     code,
		Verdict:  s.deps.Validator.Evaluate(code.Code),
	}

	s.mu.Lock()
	s.pending = &run
	s.state = domain.StateAwaitingConfirmation
	s.mu.Unlock()
	return run, nil
}

// Pending returns the artifact awaiting confirmation, if any.
func (s *Service) Pending() (domain.PendingRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return domain.PendingRun{}, false
	}
	return *s.pending, true
}

// Confirm executes the pending artifact and records exactly one history
// entry, whether the run succeeds, fails or is refused by the validator.
func (s *Service) Confirm(ctx context.Context, sink domain.OutputSink) (domain.RunResult, error) {
	s.mu.Lock()
	switch {
	case s.state == domain.StateGenerating || s.state == domain.StateExecuting:
		s.mu.Unlock()
		return domain.RunResult{}, domain.ErrBusy
	case s.pending == nil:
		s.mu.Unlock()
		return domain.RunResult{}, domain.ErrNoPendingCode
	}
	run := *s.pending
	s.pending = nil
	s.state = domain.StateExecuting
	s.mu.Unlock()

	outcome := s.execute(ctx, run, sink)
	output := outcome.Display()
	entry := domain.NewConversationEntry(run.Request, run.Code.Code, &output)

	s.mu.Lock()
	s.history.Append(entry)
	s.state = domain.StateIdle
	s.mu.Unlock()

	return domain.RunResult{
		Request: run.Request,
		Code:    run.Code.Code,
		Outcome: outcome,
		Output:  output,
		Entry:   entry,
	}, nil
}

func (s *Service) execute(ctx context.Context, run domain.PendingRun, sink domain.OutputSink) domain.ExecutionOutcome {
	verdict := s.deps.Validator.Evaluate(run.Code.Code)
	if !verdict.Accepted {
		fields := map[string]interface{}{
			"matched": verdict.Matched,
			"reason":  verdict.Reason,
		}
		if s.deps.RequireValidation {
			s.deps.Logger.Warn("code rejected by validator", fields)
			return domain.ExecutionOutcome{
				Status:   domain.OutcomeRejected,
				ExitCode: -1,
				Err:      fmt.Errorf("%w: %s", domain.ErrCodeRejected, verdict.Reason),
			}
		}
		s.deps.Logger.Warn("validator rejected code, running anyway", fields)
	}

	outcome := s.deps.Executor.Execute(ctx, domain.ExecutionRequest{Code: run.Code.Code, Sink: sink})
	s.deps.Logger.Info("execution finished", map[string]interface{}{
		"status":    string(outcome.Status),
		"exit_code": outcome.ExitCode,
		"duration":  outcome.Duration.String(),
	})
	return outcome
}

// Cancel drops the pending artifact. It reports whether anything was dropped.
func (s *Service) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateAwaitingConfirmation {
		return false
	}
	s.pending = nil
	s.state = domain.StateIdle
	return true
}

// History returns a copy of the conversation window, oldest first.
func (s *Service) History() []domain.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Snapshot()
}

// ClearHistory empties the conversation window.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

func (s *Service) setState(state domain.PipelineState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
