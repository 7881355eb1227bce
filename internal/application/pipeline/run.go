package pipeline

import (
	"context"
	"fmt"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// RunRequest drives one full cycle through Run.
type RunRequest struct {
	Request string
	Options GenerateOptions
	// PreviewOnly stops after generation.
	PreviewOnly bool
	// AutoConfirm executes without asking.
	AutoConfirm bool
	Sink        domain.OutputSink
	// OnGenerated, when set, sees the artifact before anything is decided.
	OnGenerated func(domain.PendingRun)
}

// RunResponse reports what Run did.
type RunResponse struct {
	Pending  domain.PendingRun
	Executed bool
	Result   domain.RunResult
}

// Run generates code, asks for confirmation and executes it. Declined or
// preview-only runs leave the history untouched.
func (s *Service) Run(ctx context.Context, req RunRequest, prompter ports.ConfirmationPrompter) (RunResponse, error) {
	pending, err := s.Generate(ctx, req.Request, req.Options)
	if err != nil {
		return RunResponse{}, err
	}
	resp := RunResponse{Pending: pending}
	if req.OnGenerated != nil {
		req.OnGenerated(pending)
	}

	proceed, err := s.decideExecution(req, prompter, pending)
	if err != nil || !proceed {
		s.Cancel()
		return resp, err
	}

	result, err := s.Confirm(ctx, req.Sink)
	if err != nil {
		return resp, err
	}
	resp.Executed = true
	resp.Result = result
	return resp, nil
}

func (s *Service) decideExecution(req RunRequest, prompter ports.ConfirmationPrompter, pending domain.PendingRun) (bool, error) {
	switch {
	case req.PreviewOnly:
		return false, nil
	case req.AutoConfirm:
		return true, nil
	case prompter == nil || !prompter.Enabled():
		return false, nil
	}

	ok, err := prompter.Confirm(pending)
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return ok, nil
}
