package domain

import "time"

// PipelineState is the coordinator's position in the generate/confirm/execute cycle.
type PipelineState string

const (
	StateIdle                 PipelineState = "idle"
	StateGenerating           PipelineState = "generating"
	StateAwaitingConfirmation PipelineState = "awaiting_confirmation"
	StateExecuting            PipelineState = "executing"
)

// PendingRun is the request/code pair waiting for confirmation.
type PendingRun struct {
	Request  string
	Provider Provider
	Model    string
	Code     GeneratedCode
	Verdict  Verdict
}

// RunResult is returned after a confirmed run finishes.
type RunResult struct {
	Request string
	Code    string
	Outcome ExecutionOutcome
	Output  string
	Entry   ConversationEntry
}

// Elapsed is a convenience accessor for renderers.
func (r RunResult) Elapsed() time.Duration {
	return r.Outcome.Duration
}
