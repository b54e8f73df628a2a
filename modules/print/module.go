// Package print provides the built-in 'print' runner: it writes the
// evaluated per-iteration values to stdout, which makes it the smallest
// possible probe of parameter substitution.
package print

import (
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"sort"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

//go:embed manifest.hcl
var manifest string

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Value map[string]string `pggo:"input"`
}

// Deps is empty because this runner uses no resources.
type Deps struct{}

// OnRunPrint is the handler for the 'print' runner's on_run event.
func OnRunPrint(ctx context.Context, deps *Deps, input *Input) (any, error) {
	ctxlog.FromContext(ctx).Debug("Printing input.", "keys", len(input.Value))

	if input.Value == nil {
		fmt.Println("      (null)")
		return nil, nil
	}

	// Sort keys for consistent output.
	keys := make([]string, 0, len(input.Value))
	for k := range input.Value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("      %s = %q\n", k, input.Value[k])
	}
	return nil, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunPrint", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunPrint,
	})
}

// Manifest returns the embedded manifest source.
func (m *Module) Manifest() config.Source {
	return config.Source{Name: "modules/print/manifest.hcl", Content: manifest}
}
