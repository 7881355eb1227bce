package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/doeshing/codeshai/internal/domain"
)

// TestExecutionOutcome_Display tests result string classification
func TestExecutionOutcome_Display(t *testing.T) {
	tests := []struct {
		name    string
		outcome domain.ExecutionOutcome
		want    string
	}{
		{
			name:    "exit zero without output",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted},
			want:    domain.MsgExecutionSucceeded,
		},
		{
			name:    "exit zero with output",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted, Stdout: "['a.txt', 'b.txt']"},
			want:    "['a.txt', 'b.txt']",
		},
		{
			name:    "nonzero exit with stderr",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted, ExitCode: 1, Stderr: "boom", Stdout: "partial"},
			want:    "boom",
		},
		{
			name:    "nonzero exit without stderr",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted, ExitCode: 3},
			want:    "Process failed with exit code 3",
		},
		{
			name:    "timeout",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeTimedOut, Budget: 120 * time.Second},
			want:    "Error: Python script execution timed out (120 seconds)",
		},
		{
			name:    "interpreter missing",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeUnavailable},
			want:    domain.MsgInterpreterMissing,
		},
		{
			name:    "launch failure",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeLaunchFailed, Err: errors.New("permission denied")},
			want:    "Error: permission denied",
		},
		{
			name:    "rejected",
			outcome: domain.ExecutionOutcome{Status: domain.OutcomeRejected, Err: domain.ErrCodeRejected},
			want:    "Error: code rejected by safety validator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecutionOutcome_Succeeded(t *testing.T) {
	if !(domain.ExecutionOutcome{Status: domain.OutcomeCompleted}).Succeeded() {
		t.Error("expected clean exit to succeed")
	}
	if (domain.ExecutionOutcome{Status: domain.OutcomeCompleted, ExitCode: 2}).Succeeded() {
		t.Error("expected nonzero exit to fail")
	}
	if (domain.ExecutionOutcome{Status: domain.OutcomeTimedOut}).Succeeded() {
		t.Error("expected timeout to fail")
	}
}
