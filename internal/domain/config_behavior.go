package domain

import (
	"fmt"
	"time"
)

// Rich domain model: configuration lookups with their defaults live next to the data.

// GetDefaultProvider resolves the configured default provider.
// Returns an error if the value names an unknown provider.
func (c *Config) GetDefaultProvider() (Provider, error) {
	if c.Preferences.DefaultProvider == "" {
		return ProviderDeepSeek, nil
	}
	return ParseProvider(c.Preferences.DefaultProvider)
}

// GetEndpoint returns the generation endpoint for p, honoring overrides.
func (c *Config) GetEndpoint(p Provider) string {
	if settings, ok := c.Providers[string(p)]; ok && settings.Endpoint != "" {
		return settings.Endpoint
	}
	return p.Endpoint()
}

// GetCatalogEndpoint returns the local model catalog URL.
func (c *Config) GetCatalogEndpoint() string {
	if settings, ok := c.Providers[string(ProviderOllama)]; ok && settings.CatalogEndpoint != "" {
		return settings.CatalogEndpoint
	}
	return DefaultLocalCatalogURL
}

// GetGenerationTimeout returns the provider round-trip budget.
func (c *Config) GetGenerationTimeout() time.Duration {
	if c.Generation.TimeoutSeconds <= 0 {
		return DefaultGenerationTimeout
	}
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// GetMaxTokens returns the generation length cap.
func (c *Config) GetMaxTokens() int {
	if c.Generation.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.Generation.MaxTokens
}

// GetExecutionTimeout returns the child process budget.
func (c *Config) GetExecutionTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return DefaultExecutionTimeout
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// GetInterpreters returns the ordered interpreter candidates.
func (c *Config) GetInterpreters() []string {
	if len(c.Execution.Interpreters) == 0 {
		return append([]string(nil), DefaultInterpreters...)
	}
	return append([]string(nil), c.Execution.Interpreters...)
}

// ShouldRequireValidation reports whether execution is gated on the validator.
func (c *Config) ShouldRequireValidation() bool {
	return c.Execution.RequireValidation
}

// ShouldConfirmBeforeExecution checks if user confirmation is required before execution
func (c *Config) ShouldConfirmBeforeExecution() bool {
	return c.Preferences.ConfirmBeforeExecute
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	if _, err := c.GetDefaultProvider(); err != nil {
		return fmt.Errorf("preferences.default_provider: %w", err)
	}

	for name := range c.Providers {
		if _, err := ParseProvider(name); err != nil {
			return fmt.Errorf("providers.%s: %w", name, err)
		}
	}

	if c.Generation.TimeoutSeconds < 0 {
		return fmt.Errorf("generation.timeout_seconds must be >= 0, got %d", c.Generation.TimeoutSeconds)
	}
	if c.Execution.TimeoutSeconds < 0 {
		return fmt.Errorf("execution.timeout_seconds must be >= 0, got %d", c.Execution.TimeoutSeconds)
	}

	for _, candidate := range c.Execution.Interpreters {
		if candidate == "" {
			return fmt.Errorf("execution.interpreters must not contain empty entries")
		}
	}

	return nil
}
