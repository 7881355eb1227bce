package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/codeshai/internal/domain"
)

const historyPreviewWidth = 60

// RenderPending prints the generated code and the validator verdict.
func RenderPending(out io.Writer, pending domain.PendingRun) {
	fmt.Fprintf(out, "Provider: %s", pending.Provider.DisplayName())
	if pending.Model != "" {
		fmt.Fprintf(out, " (%s)", pending.Model)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "\nGenerated code:")
	fmt.Fprintln(out, indent(pending.Code.Code, "  "))

	if pending.Verdict.Accepted {
		fmt.Fprintf(out, "\nValidator: accepted (%s)\n", pending.Verdict.Reason)
	} else {
		fmt.Fprintf(out, "\nValidator: REJECTED (%s)\n", verdictDetail(pending.Verdict))
	}
}

// RenderResult prints the run outcome. When output was already streamed
// only a summary line is added.
func RenderResult(out io.Writer, result domain.RunResult, streamed bool) {
	outcome := result.Outcome
	switch {
	case outcome.Succeeded() && streamed:
		fmt.Fprintf(out, "\nCompleted in %s (%s of output)\n",
			formatElapsed(outcome.Duration), humanize.Bytes(uint64(len(outcome.Stdout))))
	case outcome.Succeeded():
		fmt.Fprintf(out, "\n%s\n", result.Output)
	case outcome.Status == domain.OutcomeCompleted && streamed:
		fmt.Fprintf(out, "\nProcess exited with code %d after %s\n", outcome.ExitCode, formatElapsed(outcome.Duration))
	default:
		fmt.Fprintf(out, "\n%s\n", result.Output)
	}
}

// RenderHistory lists the conversation window, oldest first.
func RenderHistory(out io.Writer, entries []domain.ConversationEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, msgNoHistory)
		return
	}
	for i, entry := range entries {
		fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, humanize.RelTime(entry.Timestamp, now, "ago", "from now"), entry.UserRequest)
		if result := firstLine(entry.Result()); result != "" {
			fmt.Fprintf(out, "    -> %s\n", truncate(result, historyPreviewWidth))
		}
	}
}

func verdictDetail(v domain.Verdict) string {
	if v.Matched == "" {
		return v.Reason
	}
	return fmt.Sprintf("%s: %q", v.Reason, v.Matched)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return humanize.FtoaWithDigits(d.Seconds(), 2) + "s"
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx] + " ..."
	}
	return text
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-3]) + "..."
}
