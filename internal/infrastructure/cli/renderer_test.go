package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/codeshai/internal/domain"
)

func TestRenderHistory(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ok := "['a.txt']"
	failed := "Traceback (most recent call last):\n  File \"x.py\", line 1"
	long := strings.Repeat("x", 80)
	entries := []domain.ConversationEntry{
		{UserRequest: "list files", ExecutionResult: &ok, Timestamp: now.Add(-2 * time.Hour)},
		{UserRequest: "break", ExecutionResult: &failed, Timestamp: now.Add(-3 * time.Minute)},
		{UserRequest: "long", ExecutionResult: &long, Timestamp: now},
	}

	var buf bytes.Buffer
	RenderHistory(&buf, entries, now)

	want := []string{
		" 1. [2 hours ago] list files",
		"    -> ['a.txt']",
		" 2. [3 minutes ago] break",
		"    -> Traceback (most recent call last): ...",
		" 3. [now] long",
		"    -> " + strings.Repeat("x", 57) + "...",
	}
	if diff := cmp.Diff(want, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, nil, time.Now())
	if got := strings.TrimSpace(buf.String()); got != msgNoHistory {
		t.Fatalf("got %q", got)
	}
}

func TestRenderResult(t *testing.T) {
	tests := []struct {
		name     string
		result   domain.RunResult
		streamed bool
		want     string
	}{
		{
			name:     "streamed success",
			result:   domain.RunResult{Outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted, Stdout: "hello", Duration: 1500 * time.Millisecond}},
			streamed: true,
			want:     "\nCompleted in 1.5s (5 B of output)\n",
		},
		{
			name:   "silent success",
			result: domain.RunResult{Outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted}, Output: domain.MsgExecutionSucceeded},
			want:   "\nOperation completed successfully\n",
		},
		{
			name:     "streamed failure",
			result:   domain.RunResult{Outcome: domain.ExecutionOutcome{Status: domain.OutcomeCompleted, ExitCode: 2, Duration: 40 * time.Millisecond}},
			streamed: true,
			want:     "\nProcess exited with code 2 after 40ms\n",
		},
		{
			name: "rejected",
			result: domain.RunResult{
				Outcome: domain.ExecutionOutcome{Status: domain.OutcomeRejected, Err: errors.New("blocked")},
				Output:  "Error: blocked",
			},
			want: "\nError: blocked\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			RenderResult(&buf, tt.result, tt.streamed)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrompterConfirm(t *testing.T) {
	accepted := domain.PendingRun{Verdict: domain.Verdict{Accepted: true}}
	rejected := domain.PendingRun{Verdict: domain.Verdict{Reason: domain.ReasonDenied}}

	tests := []struct {
		name     string
		pending  domain.PendingRun
		hardGate bool
		input    string
		want     bool
		asked    bool
	}{
		{"y", accepted, false, "y\n", true, true},
		{"YES", accepted, false, "YES\n", true, true},
		{"blank", accepted, false, "\n", false, true},
		{"eof", accepted, false, "", false, true},
		{"unterminated", accepted, false, "y", true, true},
		{"rejected y", rejected, false, "y\n", false, true},
		{"rejected yes", rejected, false, "yes\n", true, true},
		{"gated accepted", accepted, true, "y\n", true, true},
		{"gated rejected yes", rejected, true, "yes\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).RequireValidation(tt.hardGate).Confirm(tt.pending)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if asked := strings.Contains(out.String(), "[y/N]") || strings.Contains(out.String(), "Type 'yes'"); asked != tt.asked {
				t.Fatalf("prompted = %v, want %v; output:\n%s", asked, tt.asked, out.String())
			}
			if tt.hardGate && !tt.pending.Verdict.Accepted && !strings.Contains(out.String(), "will not run") {
				t.Fatalf("missing hard gate notice in %q", out.String())
			}
		})
	}
}

func TestStreamWriterSplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	w := NewStreamWriter(&out, &errOut)
	w.WriteLine(domain.StreamStdout, "one")
	w.WriteLine(domain.StreamStderr, "oops")
	w.WriteLine(domain.StreamStdout, "two")

	if diff := cmp.Diff("\nOutput:\none\ntwo\n", out.String()); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if errOut.String() != "oops\n" {
		t.Fatalf("stderr = %q", errOut.String())
	}
	if w.Lines() != 3 {
		t.Fatalf("Lines() = %d", w.Lines())
	}
}
