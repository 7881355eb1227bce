package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/codeshai/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateGeneration(cfg.Generation); err != nil {
		return err
	}
	if err := validateExecution(cfg.Execution); err != nil {
		return err
	}
	return validateProviders(cfg.Providers)
}

func validateGeneration(gen domain.GenerationSettings) error {
	if gen.MaxTokens < 0 {
		return fmt.Errorf("generation.max_tokens must be >= 0, got %d", gen.MaxTokens)
	}
	return nil
}

func validateExecution(exec domain.ExecutionSettings) error {
	if len(exec.Interpreters) == 0 {
		return fmt.Errorf("execution.interpreters must list at least one interpreter")
	}
	return nil
}

func validateProviders(providers map[string]domain.ProviderSettings) error {
	for name, settings := range providers {
		for field, value := range map[string]string{
			"endpoint":         settings.Endpoint,
			"catalog_endpoint": settings.CatalogEndpoint,
		} {
			if value == "" {
				continue
			}
			if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
				return fmt.Errorf("providers.%s.%s must be an http(s) URL, got %q", name, field, value)
			}
		}
	}
	return nil
}
