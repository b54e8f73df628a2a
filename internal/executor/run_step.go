package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/paramtable"
)

// runIteration executes every step of the flow, in file order, against the
// given binding set. Step outputs are visible to later steps of the same
// iteration only; each iteration starts from a clean slate.
func (e *Executor) runIteration(ctx context.Context, index int, bindings paramtable.BindingSet, total int) error {
	logger := ctxlog.FromContext(ctx).With("iteration", index)
	logger.Info("▶️ Iteration starting.", "of", total)
	logger.Debug("Iteration bindings.", "bindings", map[string]string(bindings))

	stepOutputs := make(map[string]map[string]cty.Value)

	for _, step := range e.model.Flow.Steps {
		stepID := fmt.Sprintf("step.%s.%s", step.RunnerType, step.Name)
		evalCtx := e.buildEvalContext(index, total, bindings, stepOutputs)

		output, err := e.runStep(ctx, step, evalCtx, stepID)
		if err != nil {
			return fmt.Errorf("%s: %w", stepID, err)
		}

		if _, ok := stepOutputs[step.RunnerType]; !ok {
			stepOutputs[step.RunnerType] = make(map[string]cty.Value)
		}
		stepOutputs[step.RunnerType][step.Name] = cty.ObjectVal(map[string]cty.Value{
			"output": output,
		})
	}

	logger.Info("✅ Iteration finished.")
	return nil
}

// runStep decodes the step's arguments against the iteration context, builds
// the deps struct from its resource dependencies, and invokes the handler.
func (e *Executor) runStep(ctx context.Context, step *config.Step, evalCtx *hcl.EvalContext, stepID string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("step", stepID)
	logger.Debug("Step starting.")

	runnerDef, ok := e.registry.RunnerDefinitions[step.RunnerType]
	if !ok {
		return cty.NilVal, fmt.Errorf("unknown runner type %q", step.RunnerType)
	}
	handlerName := runnerDef.Lifecycle.OnRun
	handler, ok := e.registry.RunnerHandlers[handlerName]
	if !ok {
		return cty.NilVal, fmt.Errorf("handler %q is not registered", handlerName)
	}

	inputStruct := handler.NewInput()
	if inputStruct != nil {
		if err := e.converter.DecodeBody(ctx, inputStruct, step.Arguments, runnerDef.Inputs, evalCtx); err != nil {
			return cty.NilVal, fmt.Errorf("failed to decode arguments: %w", err)
		}
		logger.Debug("Step input decoded.", "input", formatValueForLogs(inputStruct))
	}

	depsStruct, err := e.buildDepsStruct(ctx, step, handler, stepID)
	if err != nil {
		return cty.NilVal, err
	}

	handlerFn := reflect.ValueOf(handler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(depsStruct)}
	if inputStruct == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFn.Type().In(2)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFn.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return cty.NilVal, errResult.(error)
	}

	output := cty.EmptyObjectVal
	if nativeOutput != nil {
		output, err = e.converter.ToCtyValue(nativeOutput)
		if err != nil {
			return cty.NilVal, fmt.Errorf("failed to convert handler output: %w", err)
		}
	}

	logger.Debug("Step finished.", "output", formatValueForLogs(output))
	return output, nil
}
