package domain

import (
	"fmt"
	"time"
)

// GeneratedCodeDescription is attached to every artifact regardless of provider.
const GeneratedCodeDescription = "Generated code"

// GeneratedCode is the canonical artifact produced by one generation call.
type GeneratedCode struct {
	Code        string
	Description string
}

// Stream identifies a child process output stream.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// OutputSink receives child process output line by line while it runs.
type OutputSink interface {
	WriteLine(stream Stream, line string)
}

// ExecutionRequest carries one artifact into the execution engine.
type ExecutionRequest struct {
	Code string
	Sink OutputSink
}

// OutcomeStatus classifies how an execution ended.
type OutcomeStatus string

const (
	OutcomeCompleted    OutcomeStatus = "completed"
	OutcomeTimedOut     OutcomeStatus = "timed_out"
	OutcomeCancelled    OutcomeStatus = "cancelled"
	OutcomeLaunchFailed OutcomeStatus = "launch_failed"
	OutcomeUnavailable  OutcomeStatus = "unavailable"
	OutcomeRejected     OutcomeStatus = "rejected"
)

// Result strings shown to the user.
const (
	MsgExecutionSucceeded    = "Operation completed successfully"
	MsgInterpreterMissing    = "Error: Python is not installed or could not be found. Please install Python 3 from python.org"
	msgProcessFailedTemplate = "Process failed with exit code %d"
)

// ExecutionOutcome is produced once per execution and folded into history as text.
type ExecutionOutcome struct {
	Status   OutcomeStatus
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	Budget   time.Duration
	Err      error
}

// Succeeded reports a clean zero exit.
func (o ExecutionOutcome) Succeeded() bool {
	return o.Status == OutcomeCompleted && o.ExitCode == 0
}

// Display converts the outcome into the result string recorded in history.
func (o ExecutionOutcome) Display() string {
	switch o.Status {
	case OutcomeCompleted:
		if o.ExitCode == 0 {
			if o.Stdout == "" {
				return MsgExecutionSucceeded
			}
			return o.Stdout
		}
		if o.Stderr == "" {
			return fmt.Sprintf(msgProcessFailedTemplate, o.ExitCode)
		}
		return o.Stderr
	case OutcomeTimedOut:
		return fmt.Sprintf("Error: Python script execution timed out (%d seconds)", int(o.Budget.Seconds()))
	case OutcomeCancelled:
		return "Error: execution cancelled"
	case OutcomeUnavailable:
		return MsgInterpreterMissing
	case OutcomeRejected:
		if o.Err != nil {
			return fmt.Sprintf("Error: %v", o.Err)
		}
		return "Error: code rejected by safety validator"
	default:
		if o.Err != nil {
			return fmt.Sprintf("Error: %v", o.Err)
		}
		return "Error: execution failed"
	}
}
