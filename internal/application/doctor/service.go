package doctor

import (
	"context"
	"fmt"
	"strings"

	appconfig "github.com/doeshing/codeshai/internal/application/config"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/ports"
)

// RulesInfo describes the loaded validator rules.
type RulesInfo interface {
	Source() string
	RuleCounts() (deny int, allow int)
}

// InterpreterLocator exposes the interpreter resolved at startup.
type InterpreterLocator interface {
	Interpreter() (string, bool)
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Validator      ports.CodeValidator
	Rules          RulesInfo
	Interpreter    InterpreterLocator
	Credentials    ports.CredentialStore
	Catalog        ports.ModelCatalog
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.validatorCheck())
	checks = append(checks, s.interpreterCheck())
	checks = append(checks, s.credentialChecks()...)
	checks = append(checks, s.localModelsCheck(ctx))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) validatorCheck() domain.HealthCheck {
	if s.Validator == nil {
		return fail("Code validator", "validator not initialized")
	}
	if !s.Validator.IsAcceptable("import os\nprint(os.listdir('.'))") || s.Validator.IsAcceptable("import subprocess") {
		return warn("Code validator", "rules do not accept basic file listing or do not reject subprocess")
	}
	if s.Rules == nil {
		return ok("Code validator", "rules loaded")
	}
	deny, allow := s.Rules.RuleCounts()
	return ok("Code validator", fmt.Sprintf("%d deny / %d allow rules from %s", deny, allow, s.Rules.Source()))
}

func (s *Service) interpreterCheck() domain.HealthCheck {
	if s.Interpreter == nil {
		return warn("Python interpreter", "executor not initialized")
	}
	path, found := s.Interpreter.Interpreter()
	if !found {
		return fail("Python interpreter", strings.TrimPrefix(domain.MsgInterpreterMissing, "Error: "))
	}
	return ok("Python interpreter", path)
}

func (s *Service) credentialChecks() []domain.HealthCheck {
	if s.Credentials == nil {
		return []domain.HealthCheck{warn("API keys", "settings store not initialized")}
	}
	var checks []domain.HealthCheck
	for _, p := range domain.AllProviders() {
		if !p.RequiresCredential() {
			continue
		}
		name := fmt.Sprintf("%s API key", p.DisplayName())
		if s.Credentials.Credential(p) != "" {
			checks = append(checks, ok(name, "configured"))
			continue
		}
		checks = append(checks, warn(name, fmt.Sprintf("missing (set %s or get one at %s)", p.CredentialEnvVar(), p.CredentialURL())))
	}
	return checks
}

func (s *Service) localModelsCheck(ctx context.Context) domain.HealthCheck {
	if s.Catalog == nil {
		return warn("Ollama", "catalog not initialized")
	}
	models := s.Catalog.ListModels(ctx, domain.ProviderOllama)
	if len(models) == 0 {
		return warn("Ollama", "not reachable or no models pulled")
	}
	return ok("Ollama", fmt.Sprintf("%d models: %s", len(models), strings.Join(models, ", ")))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
