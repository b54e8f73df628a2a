package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

// createResources instantiates every declared resource, in file order, before
// the first iteration. Resource arguments are literal: they cannot reference
// param or step values, since no iteration exists yet.
func (e *Executor) createResources(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, resource := range e.model.Flow.Resources {
		resourceID := fmt.Sprintf("resource.%s.%s", resource.AssetType, resource.Name)
		logger.Info("▶️ Creating resource.", "resource", resourceID)

		assetDef, ok := e.registry.AssetDefinitions[resource.AssetType]
		if !ok {
			return fmt.Errorf("%s: unknown asset type %q", resourceID, resource.AssetType)
		}
		handler, ok := e.registry.AssetHandlers[assetDef.Lifecycle.Create]
		if !ok {
			return fmt.Errorf("%s: create handler %q is not registered", resourceID, assetDef.Lifecycle.Create)
		}

		inputStruct := handler.NewInput()
		if inputStruct != nil {
			if err := e.converter.DecodeBody(ctx, inputStruct, resource.Arguments, assetDef.Inputs, &hcl.EvalContext{}); err != nil {
				return fmt.Errorf("%s: failed to decode arguments: %w", resourceID, err)
			}
		}

		createFn := reflect.ValueOf(handler.CreateFn)
		callArgs := []reflect.Value{reflect.ValueOf(ctx)}
		if inputStruct == nil {
			callArgs = append(callArgs, reflect.Zero(createFn.Type().In(1)))
		} else {
			callArgs = append(callArgs, reflect.ValueOf(inputStruct))
		}
		results := createFn.Call(callArgs)
		instance, errResult := results[0].Interface(), results[1].Interface()
		if errResult != nil {
			return fmt.Errorf("%s: create failed: %w", resourceID, errResult.(error))
		}

		e.resources[resourceID] = instance
		e.resourceOrder = append(e.resourceOrder, resourceID)
		logger.Info("✅ Resource created.", "resource", resourceID)
	}
	return nil
}

// destroyResources tears down created resources in reverse creation order.
// Destroy failures are logged, not propagated: teardown must visit every
// remaining resource.
func (e *Executor) destroyResources(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	for i := len(e.resourceOrder) - 1; i >= 0; i-- {
		resourceID := e.resourceOrder[i]
		instance := e.resources[resourceID]
		assetType := strings.Split(resourceID, ".")[1]

		assetDef, ok := e.registry.AssetDefinitions[assetType]
		if !ok {
			continue
		}
		handler, ok := e.registry.AssetHandlers[assetDef.Lifecycle.Create]
		if !ok || handler.DestroyFn == nil {
			continue
		}

		logger.Info("Destroying resource.", "resource", resourceID)
		destroyFn := reflect.ValueOf(handler.DestroyFn)
		results := destroyFn.Call([]reflect.Value{reflect.ValueOf(instance)})
		if errResult := results[0].Interface(); errResult != nil {
			logger.Error("Resource destroy failed.", "resource", resourceID, "error", errResult)
		}
		delete(e.resources, resourceID)
	}
	e.resourceOrder = nil
}

// buildDepsStruct populates the handler's deps struct from the step's `uses`
// block, injecting live resource objects by their `resource.<type>.<name>`
// reference.
func (e *Executor) buildDepsStruct(ctx context.Context, step *config.Step, handler *registry.RegisteredRunner, stepID string) (any, error) {
	logger := ctxlog.FromContext(ctx)
	depsStruct := handler.NewDeps()

	if len(step.Uses) == 0 {
		return depsStruct, nil
	}

	depsValue := reflect.ValueOf(depsStruct).Elem()
	depsType := depsValue.Type()

	for i := 0; i < depsValue.NumField(); i++ {
		field := depsType.Field(i)
		tag := strings.Split(field.Tag.Get("pggo"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}

		resourceExpr, ok := step.Uses[tag]
		if !ok {
			continue
		}

		traversals := resourceExpr.Variables()
		if len(traversals) != 1 {
			return nil, fmt.Errorf("%s: uses entry %q must be a direct reference to one resource", stepID, tag)
		}
		resourceID, err := traversalToResourceID(traversals[0])
		if err != nil {
			return nil, fmt.Errorf("%s: uses entry %q: %w", stepID, tag, err)
		}

		instance, found := e.resources[resourceID]
		if !found {
			return nil, fmt.Errorf("%s: requires resource %q, which has not been created", stepID, resourceID)
		}

		instanceType := reflect.TypeOf(instance)
		if field.Type.Kind() == reflect.Interface {
			if !instanceType.Implements(field.Type) {
				return nil, fmt.Errorf("%s: resource %q of type %v does not implement %v", stepID, resourceID, instanceType, field.Type)
			}
		} else if !instanceType.AssignableTo(field.Type) {
			return nil, fmt.Errorf("%s: resource %q of type %v is not assignable to field of type %v", stepID, resourceID, instanceType, field.Type)
		}

		logger.Debug("Injecting resource dependency.", "step", stepID, "resource", resourceID)
		depsValue.Field(i).Set(reflect.ValueOf(instance))
	}

	return depsStruct, nil
}

// traversalToResourceID converts a `resource.<type>.<name>` traversal into
// its canonical string ID.
func traversalToResourceID(t hcl.Traversal) (string, error) {
	if len(t) < 3 {
		return "", fmt.Errorf("invalid resource reference")
	}
	if t.RootName() != "resource" {
		return "", fmt.Errorf("expected a 'resource' reference, got %q", t.RootName())
	}
	assetType, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return "", fmt.Errorf("invalid resource reference")
	}
	name, ok := t[2].(hcl.TraverseAttr)
	if !ok {
		return "", fmt.Errorf("invalid resource reference")
	}
	return fmt.Sprintf("resource.%s.%s", assetType.Name, name.Name), nil
}
