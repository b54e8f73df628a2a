package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
)

// Validate performs a strict parity check between loaded definitions and
// registered Go handlers: every definition must resolve to a handler, and
// declared inputs must match the handler's input struct in both presence and
// type.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string

	for _, runnerType := range sortedKeys(r.RunnerDefinitions) {
		def := r.RunnerDefinitions[runnerType]
		if def.Lifecycle == nil || def.Lifecycle.OnRun == "" {
			errs = append(errs, fmt.Sprintf("runner %q: manifest declares no on_run handler", runnerType))
			continue
		}
		handler, ok := r.RunnerHandlers[def.Lifecycle.OnRun]
		if !ok {
			errs = append(errs, fmt.Sprintf("runner %q: handler %q is not registered", runnerType, def.Lifecycle.OnRun))
			continue
		}
		errs = append(errs, r.checkInputParity(ctx, "runner", runnerType, def.Inputs, handler.InputType)...)
	}

	for _, assetType := range sortedKeys(r.AssetDefinitions) {
		def := r.AssetDefinitions[assetType]
		if def.Lifecycle == nil || def.Lifecycle.Create == "" || def.Lifecycle.Destroy == "" {
			errs = append(errs, fmt.Sprintf("asset %q: manifest must declare create and destroy handlers", assetType))
			continue
		}
		handler, ok := r.AssetHandlers[def.Lifecycle.Create]
		if !ok {
			errs = append(errs, fmt.Sprintf("asset %q: handler %q is not registered", assetType, def.Lifecycle.Create))
			continue
		}
		if handler.CreateFn == nil || handler.DestroyFn == nil {
			errs = append(errs, fmt.Sprintf("asset %q: handler %q must provide both create and destroy functions", assetType, def.Lifecycle.Create))
			continue
		}
		errs = append(errs, r.checkInputParity(ctx, "asset", assetType, def.Inputs, handler.InputType)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// checkInputParity compares a definition's declared inputs with the tagged
// fields of the handler's input struct.
func (r *Registry) checkInputParity(ctx context.Context, kind, name string, declared map[string]*config.InputDefinition, inputType reflect.Type) []string {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if inputType == nil {
		if len(declared) > 0 {
			errs = append(errs, fmt.Sprintf("%s %q: manifest declares inputs, but the Go handler has no input struct", kind, name))
		}
		return errs
	}

	goInputs := make(map[string]reflect.StructField)
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName := strings.Split(field.Tag.Get("pggo"), ",")[0]
		if tagName != "" && tagName != "-" {
			goInputs[tagName] = field
		}
	}

	for _, tagName := range sortedKeys(goInputs) {
		if _, ok := declared[tagName]; !ok {
			errs = append(errs, fmt.Sprintf("%s %q: Go struct binds input %q which the manifest does not declare", kind, name, tagName))
		}
	}
	for _, inputName := range sortedKeys(declared) {
		inputDef := declared[inputName]
		field, ok := goInputs[inputName]
		if !ok {
			errs = append(errs, fmt.Sprintf("%s %q: manifest declares input %q with no matching Go struct field", kind, name, inputName))
			continue
		}

		if inputDef.Type.Equals(cty.DynamicPseudoType) {
			logger.Warn("Manifest input uses 'type = any', disabling static type checking.", "owner", name, "input", inputName)
			continue
		}

		fieldType, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface())
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %q, input %q: cannot imply a cty type from Go field type %s: %v", kind, name, inputName, field.Type, err))
			continue
		}
		if !inputDef.Type.Equals(fieldType) {
			errs = append(errs, fmt.Sprintf("%s %q, input %q: manifest requires %s but Go field %s provides %s",
				kind, name, inputName, inputDef.Type.FriendlyName(), field.Name, fieldType.FriendlyName()))
		}
	}
	return errs
}

// sortedKeys keeps validation output deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
