package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/pkg/filesystem"
	"github.com/doeshing/codeshai/internal/pkg/logger"
	"github.com/doeshing/codeshai/internal/ports"
)

const (
	scratchPrefix = "codeshai_"
	scratchSuffix = ".py"
	maxLineBytes  = 1 << 20
)

// Options configures a PythonExecutor.
type Options struct {
	// Interpreters are probed in order; the first to answer --version wins.
	Interpreters []string
	// WorkingDir is where the child runs. Defaults to the user's home.
	WorkingDir string
	// Timeout bounds one run.
	Timeout time.Duration
	// TempDir holds scratch files. Defaults to os.TempDir().
	TempDir string
	Logger  ports.Logger
}

// PythonExecutor runs generated code in a child interpreter process.
type PythonExecutor struct {
	interpreter string
	workingDir  string
	timeout     time.Duration
	tempDir     string
	logger      ports.Logger
}

// NewPythonExecutor resolves the interpreter once. A failed probe is cached:
// every later Execute reports the interpreter as unavailable.
func NewPythonExecutor(ctx context.Context, opts Options) *PythonExecutor {
	e := &PythonExecutor{
		workingDir: opts.WorkingDir,
		timeout:    opts.Timeout,
		tempDir:    opts.TempDir,
		logger:     opts.Logger,
	}
	if e.logger == nil {
		e.logger = logger.NewNop()
	}
	if e.workingDir == "" {
		e.workingDir = filesystem.UserHomeDir()
	}
	e.workingDir = filesystem.ExpandPath(e.workingDir)
	if e.timeout <= 0 {
		e.timeout = domain.DefaultExecutionTimeout
	}
	if e.tempDir == "" {
		e.tempDir = os.TempDir()
	}

	candidates := opts.Interpreters
	if len(candidates) == 0 {
		candidates = domain.DefaultInterpreters
	}
	e.interpreter, _ = ResolveInterpreter(ctx, candidates, e.logger)
	return e
}

// ResolveInterpreter returns the first candidate that runs `--version`
// successfully within the probe budget.
func ResolveInterpreter(ctx context.Context, candidates []string, log ports.Logger) (string, bool) {
	if log == nil {
		log = logger.NewNop()
	}
	for _, candidate := range candidates {
		path, err := exec.LookPath(candidate)
		if err != nil {
			log.Debug("interpreter not on PATH", map[string]interface{}{"candidate": candidate})
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, domain.InterpreterProbeTimeout)
		err = exec.CommandContext(probeCtx, path, "--version").Run()
		cancel()
		if err != nil {
			log.Debug("interpreter probe failed", map[string]interface{}{
				"candidate": candidate,
				"error":     err.Error(),
			})
			continue
		}

		log.Debug("interpreter resolved", map[string]interface{}{"path": path})
		return path, true
	}
	log.Warn("no python interpreter found", map[string]interface{}{"candidates": candidates})
	return "", false
}

// Interpreter returns the resolved interpreter path.
func (e *PythonExecutor) Interpreter() (string, bool) {
	return e.interpreter, e.interpreter != ""
}

// Timeout returns the per-run budget.
func (e *PythonExecutor) Timeout() time.Duration {
	return e.timeout
}

// Execute runs req.Code and folds every failure into the outcome.
func (e *PythonExecutor) Execute(ctx context.Context, req domain.ExecutionRequest) domain.ExecutionOutcome {
	started := time.Now()
	outcome := domain.ExecutionOutcome{Budget: e.timeout, ExitCode: -1}
	finish := func(status domain.OutcomeStatus, err error) domain.ExecutionOutcome {
		outcome.Status = status
		outcome.Err = err
		outcome.Duration = time.Since(started)
		return outcome
	}

	if e.interpreter == "" {
		return finish(domain.OutcomeUnavailable, domain.ErrInterpreterUnavailable)
	}
	if ctx.Err() != nil {
		return e.interrupted(ctx, started, finish)
	}

	script, err := e.writeScratch(req.Code)
	if err != nil {
		return finish(domain.OutcomeLaunchFailed, err)
	}
	defer e.removeScratch(script)

	cmd := exec.Command(e.interpreter, script)
	cmd.Dir = e.workingDir
	setupProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return finish(domain.OutcomeLaunchFailed, fmt.Errorf("open stdout: %w", err))
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return finish(domain.OutcomeLaunchFailed, fmt.Errorf("open stderr: %w", err))
	}
	if err := cmd.Start(); err != nil {
		return finish(domain.OutcomeLaunchFailed, fmt.Errorf("start interpreter: %w", err))
	}

	stdout := &lineBuffer{}
	stderr := &lineBuffer{}
	var g errgroup.Group
	g.Go(func() error { return pump(stdoutPipe, domain.StreamStdout, stdout, req.Sink) })
	g.Go(func() error { return pump(stderrPipe, domain.StreamStderr, stderr, req.Sink) })

	done := make(chan error, 1)
	go func() {
		if err := g.Wait(); err != nil {
			e.logger.Debug("output reader stopped early", map[string]interface{}{"error": err.Error()})
		}
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	collect := func() {
		outcome.Stdout = stdout.Text()
		outcome.Stderr = stderr.Text()
	}

	select {
	case waitErr := <-done:
		collect()
		var exitErr *exec.ExitError
		switch {
		case waitErr == nil:
			outcome.ExitCode = 0
		case errors.As(waitErr, &exitErr):
			outcome.ExitCode = exitErr.ExitCode()
		default:
			return finish(domain.OutcomeLaunchFailed, waitErr)
		}
		return finish(domain.OutcomeCompleted, nil)

	case <-timer.C:
		killProcessGroup(cmd)
		e.drain(done)
		collect()
		e.logger.Warn("execution timed out", map[string]interface{}{"budget": e.timeout.String()})
		return finish(domain.OutcomeTimedOut, &domain.TimeoutError{Operation: "python execution", Budget: e.timeout})

	case <-ctx.Done():
		killProcessGroup(cmd)
		e.drain(done)
		collect()
		return e.interrupted(ctx, started, finish)
	}
}

// interrupted reports a done context: an expired caller deadline is a
// timeout, anything else a cancellation.
func (e *PythonExecutor) interrupted(ctx context.Context, started time.Time, finish func(domain.OutcomeStatus, error) domain.ExecutionOutcome) domain.ExecutionOutcome {
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return finish(domain.OutcomeCancelled, ctx.Err())
	}
	outcome := finish(domain.OutcomeTimedOut, nil)
	if deadline, ok := ctx.Deadline(); ok {
		if budget := deadline.Sub(started); budget > 0 && budget < outcome.Budget {
			outcome.Budget = budget
		}
	}
	outcome.Err = &domain.TimeoutError{Operation: "python execution", Budget: outcome.Budget}
	e.logger.Warn("execution deadline exceeded", map[string]interface{}{"budget": outcome.Budget.String()})
	return outcome
}

// drain waits for the readers and the exit waiter after a kill, bounded by
// the grace period.
func (e *PythonExecutor) drain(done <-chan error) {
	grace := time.NewTimer(domain.KillGracePeriod)
	defer grace.Stop()
	select {
	case <-done:
	case <-grace.C:
		e.logger.Warn("child output did not close after kill", nil)
	}
}

func (e *PythonExecutor) writeScratch(code string) (string, error) {
	path := filepath.Join(e.tempDir, scratchPrefix+uuid.NewString()+scratchSuffix)
	if err := os.WriteFile(path, []byte(code), domain.SecureFilePermissions); err != nil {
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}

func (e *PythonExecutor) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("failed to remove scratch file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// pump copies r line by line into buf and sink. On a scanner error the rest
// of the stream is discarded so the child never blocks on a full pipe.
func pump(r io.Reader, stream domain.Stream, buf *lineBuffer, sink domain.OutputSink) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		buf.Add(line)
		if sink != nil {
			sink.WriteLine(stream, line)
		}
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("read %s: %w", stream, err)
	}
	return nil
}

// lineBuffer accumulates output lines; it is read after a kill while a
// reader may still be running, hence the lock.
type lineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *lineBuffer) Add(line string) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

// Text returns the accumulated output, trimmed.
func (b *lineBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(strings.Join(b.lines, "\n"))
}

var _ ports.CodeExecutor = (*PythonExecutor)(nil)
