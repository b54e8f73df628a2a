package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// RegisteredRunner holds the compiled Go parts of a runner's on_run handler.
//
// Fn must have the shape func(ctx, *Deps, *Input) (Output, error); it is
// invoked through reflection by the executor.
type RegisteredRunner struct {
	NewInput  func() any
	InputType reflect.Type
	NewDeps   func() any
	Fn        any
}

// RegisterRunner registers a Go function for a runner lifecycle event.
// Registering the same name twice is a programmer error.
func (r *Registry) RegisterRunner(name string, handler *RegisteredRunner) {
	if _, exists := r.RunnerHandlers[name]; exists {
		panic(fmt.Sprintf("runner handler %q already registered", name))
	}
	slog.Debug("Registering runner handler.", "name", name)
	r.RunnerHandlers[name] = handler
}

// RegisteredAsset holds the compiled Go parts of an asset's lifecycle.
//
// CreateFn must have the shape func(ctx, *Input) (T, error) where T is the
// live resource object injected into step deps; DestroyFn is func(T) error.
type RegisteredAsset struct {
	NewInput  func() any
	InputType reflect.Type
	CreateFn  any
	DestroyFn any
}

// RegisterAsset registers Go functions for an asset's create/destroy events.
func (r *Registry) RegisterAsset(name string, handler *RegisteredAsset) {
	if _, exists := r.AssetHandlers[name]; exists {
		panic(fmt.Sprintf("asset handler %q already registered", name))
	}
	slog.Debug("Registering asset handler.", "name", name)
	r.AssetHandlers[name] = handler
}
