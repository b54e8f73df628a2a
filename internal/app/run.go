package app

import (
	"context"
	"fmt"

	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/executor"
)

// Run executes the loaded flow once per iteration of its parametrization
// table.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	exec := executor.New(a.model, a.registry, a.converter)

	table := exec.Table()
	if err := table.Validate(); err != nil {
		if appConfig.StrictParams {
			return fmt.Errorf("invalid params block: %w", err)
		}
		a.logger.Warn("Params lists have mismatched lengths; short lists will pad with empty strings.", "error", err)
	}

	if len(a.model.Flow.Steps) == 0 {
		a.logger.Warn("No steps found in flow, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting flow execution.", "iterations", table.IterationCount())
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")
	return nil
}
