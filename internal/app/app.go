package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
}

// NewApp constructs a fully initialized App: logger, registered modules,
// loaded configuration, and a validated registry. Configuration failures at
// this stage are fatal and panic; the entrypoint recovers them into a clean
// exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}

	reg := registry.New()
	manifests := make([]config.Source, 0, len(modules))
	for _, mod := range modules {
		mod.Register(reg)
		manifests = append(manifests, mod.Manifest())
	}
	logger.Debug("All modules registered.", "count", len(modules))

	model, converter, err := loader.Load(ctx, manifests, appConfig.FlowPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded into unified model.")

	reg.PopulateDefinitionsFromModel(model)
	if err := reg.Validate(ctx); err != nil {
		// Mismatch between manifests and Go code is a programmer error.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		model:     model,
		converter: converter,
	}
}

// Registry returns the application's registry. Primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded configuration model. Primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
