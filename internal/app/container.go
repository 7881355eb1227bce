package app

import (
	"context"
	"io"

	appconfig "github.com/doeshing/codeshai/internal/application/config"
	"github.com/doeshing/codeshai/internal/application/doctor"
	"github.com/doeshing/codeshai/internal/application/pipeline"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/infrastructure/ai"
	"github.com/doeshing/codeshai/internal/infrastructure/config"
	"github.com/doeshing/codeshai/internal/infrastructure/executor"
	"github.com/doeshing/codeshai/internal/infrastructure/security"
	"github.com/doeshing/codeshai/internal/infrastructure/settings"
	"github.com/doeshing/codeshai/internal/pkg/logger"
	"github.com/doeshing/codeshai/internal/ports"
)

// Settings is the combined credential and favorites store.
type Settings interface {
	ports.CredentialStore
	ports.FavoritesStore
	SetFallbackProvider(domain.Provider)
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	Logger         *logger.ZapLogger
	Settings       Settings
	Gateway        *ai.Gateway
	Validator      *security.Validator
	Executor       *executor.PythonExecutor
	Pipeline       *pipeline.Service
	DoctorService  *doctor.Service
	settingsCloser io.Closer
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	return buildContainer(ctx, logger.New(verbose), config.NewFileLoader(""))
}

// buildContainer wires everything around one loaded config. An inconsistent
// config is reported but not fatal, so doctor can still run against it.
func buildContainer(ctx context.Context, log *logger.ZapLogger, cfgLoader *config.FileLoader) (*Container, error) {
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		log.Warn("invalid configuration", map[string]interface{}{
			"path":  cfgLoader.Path(),
			"error": err.Error(),
		})
	}

	defaultProvider, err := cfg.GetDefaultProvider()
	if err != nil {
		return nil, err
	}

	var (
		store  Settings
		closer io.Closer
	)
	sqliteStore, err := settings.OpenSQLiteStore(cfg.Storage.SettingsDB)
	if err != nil {
		log.Warn("settings database unavailable, using in-memory settings", map[string]interface{}{"error": err.Error()})
		store = settings.NewMemoryStore()
	} else {
		store, closer = sqliteStore, sqliteStore
	}

	store.SetFallbackProvider(defaultProvider)

	validator, err := security.NewValidator(cfg.Security.RulesFile)
	if err != nil {
		log.Warn("invalid validator rules, using built-in rules", map[string]interface{}{"error": err.Error()})
		validator, err = security.NewValidator("")
		if err != nil {
			return nil, err
		}
	}

	pyExecutor := executor.NewPythonExecutor(ctx, executor.Options{
		Interpreters: cfg.GetInterpreters(),
		WorkingDir:   cfg.Execution.WorkingDir,
		Timeout:      cfg.GetExecutionTimeout(),
		Logger:       log,
	})

	gateway := ai.NewGateway(ai.NewRegistry(cfg), store, cfg, ai.WithLogger(log))

	pipelineService, err := pipeline.NewService(pipeline.Dependencies{
		Generator:         gateway,
		Validator:         validator,
		Executor:          pyExecutor,
		Credentials:       store,
		Logger:            log,
		RequireValidation: cfg.ShouldRequireValidation(),
		DefaultProvider:   defaultProvider,
	})
	if err != nil {
		return nil, err
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Validator:      validator,
		Rules:          validator,
		Interpreter:    pyExecutor,
		Credentials:    store,
		Catalog:        gateway,
	}

	return &Container{
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Settings:       store,
		Gateway:        gateway,
		Validator:      validator,
		Executor:       pyExecutor,
		Pipeline:       pipelineService,
		DoctorService:  doctorService,
		settingsCloser: closer,
	}, nil
}

// Close releases the settings database and flushes the logger.
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	if c.settingsCloser != nil {
		return c.settingsCloser.Close()
	}
	return nil
}
