package executor

import (
	"context"
	"fmt"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/paramtable"
	"github.com/vk/paramgridgo/internal/registry"
)

// Executor orchestrates the per-iteration execution of a flow.
type Executor struct {
	model     *config.Model
	registry  *registry.Registry
	converter config.Converter
	table     *paramtable.Table

	// Live resource objects keyed by "resource.<asset_type>.<name>", plus
	// their creation order for reverse destruction.
	resources     map[string]any
	resourceOrder []string
}

// New creates an Executor for the given model. The parametrization table is
// built once, here; it is immutable for the lifetime of the run.
func New(model *config.Model, reg *registry.Registry, converter config.Converter) *Executor {
	return &Executor{
		model:     model,
		registry:  reg,
		converter: converter,
		table:     paramtable.New(model.Flow.Params),
		resources: make(map[string]any),
	}
}

// Table exposes the executor's parametrization table, e.g. for validation at
// the app layer before the run starts.
func (e *Executor) Table() *paramtable.Table {
	return e.table
}

// Run executes the flow once per binding set of the table. A flow without a
// params block runs exactly once, with an empty binding set.
//
// The loop terminates on table absence rather than a precomputed count, per
// the table's contract; IterationCount is consulted only for logging.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := e.createResources(ctx); err != nil {
		e.destroyResources(ctx)
		return err
	}
	defer e.destroyResources(ctx)

	total := e.table.IterationCount()
	if total == 0 {
		logger.Info("Flow is unparametrized, executing a single pass.")
		return e.runIteration(ctx, 0, paramtable.BindingSet{}, 1)
	}

	logger.Info("Starting parametrized execution.", "iterations", total, "variables", e.table.Names())
	for i := 0; ; i++ {
		bindings, ok := e.table.Iteration(i)
		if !ok {
			break
		}
		if err := e.runIteration(ctx, i, bindings, total); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}
	logger.Info("All iterations finished.", "iterations", total)
	return nil
}
