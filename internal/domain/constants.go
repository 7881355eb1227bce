package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultGenerationTimeout bounds one provider round-trip
	DefaultGenerationTimeout = 120 * time.Second
	// DefaultExecutionTimeout bounds one child process run
	DefaultExecutionTimeout = 120 * time.Second
	// InterpreterProbeTimeout bounds each `--version` probe
	InterpreterProbeTimeout = 3 * time.Second
	// CatalogTimeout bounds the local model listing
	CatalogTimeout = 10 * time.Second
	// KillGracePeriod is how long to wait for pipes to drain after a kill
	KillGracePeriod = 5 * time.Second
)

// Generation constants
const (
	// DefaultMaxTokens caps generated output length
	DefaultMaxTokens = 1000
	// DefaultTemperature biases backends toward literal code
	DefaultTemperature = 0.1
	// DefaultTopP is sent to the local backend only
	DefaultTopP = 0.9
	// PromptHistoryWindow is how many prior entries networked prompts include
	PromptHistoryWindow = 3
)

// Provider defaults not covered by the provider table
const (
	DefaultGroqModel       = "openai/gpt-oss-120b"
	DefaultLocalCatalogURL = "http://localhost:11434/api/tags"
)

// DefaultInterpreters is probed in order at startup.
var DefaultInterpreters = []string{"python", "python3", "py"}

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
