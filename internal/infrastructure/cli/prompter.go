package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	hardGate bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Prompter{in: br, out: out}
}

// RequireValidation marks rejected code as unrunnable, so the prompter
// reports the rejection instead of offering an override.
func (p *Prompter) RequireValidation(on bool) *Prompter {
	p.hardGate = on
	return p
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm asks whether the pending code should run. Code the validator
// refused needs an explicit "yes", or is declined outright under the hard gate.
func (p *Prompter) Confirm(pending domain.PendingRun) (bool, error) {
	if !pending.Verdict.Accepted {
		fmt.Fprintf(p.out, "\nWarning: validator rejected this code (%s).\n", pending.Verdict.Reason)
		if p.hardGate {
			fmt.Fprintln(p.out, "It will not run while execution.require_validation is enabled.")
			return false, nil
		}
		return p.askExplicit()
	}
	return p.ask("Run this code? [y/N]: ")
}

func (p *Prompter) ask(prompt string) (bool, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}

func (p *Prompter) askExplicit() (bool, error) {
	fmt.Fprint(p.out, "Type 'yes' to run it anyway (or anything else to cancel): ")
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	return line == "yes", nil
}

// readLine treats end of input as an answer, so a closed stdin declines.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
