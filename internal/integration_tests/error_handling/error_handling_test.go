package integration_tests

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/registry"
	"github.com/vk/paramgridgo/internal/testutil"
	"github.com/vk/paramgridgo/modules/print"
)

// With strict params (the default), mismatched list lengths abort the run
// before any iteration executes.
func TestErrorHandling_StrictParamsAbortsOnMismatch(t *testing.T) {
	t.Parallel()

	flowHCL := `
		params {
			productName = ["Phone", "Laptop", "Shirt"]
			category    = ["Electronics", "Electronics", "Apparel"]
			price       = ["999", "1999"]
		}

		step "print" "row" {
			arguments {
				input = {
					name = param.productName
				}
			}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, &print.Module{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "invalid params block")
	require.Contains(t, result.Err.Error(),
		"params lists have mismatched lengths: length 2: [price]; length 3: [category, productName]")
	testutil.AssertIterationCount(t, result, 0)
}

// Malformed flow files fail at startup, not at run time.
func TestErrorHandling_MalformedFlowFailsStartup(t *testing.T) {
	t.Parallel()

	flowHCL := `
		step "print" "broken" {
			arguments {
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, &print.Module{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
}

// A step omitting a required argument fails its iteration with a decode error.
func TestErrorHandling_MissingRequiredArgument(t *testing.T) {
	t.Parallel()

	flowHCL := `
		step "print" "empty" {
			arguments {}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, &print.Module{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "step.print.empty")
	require.Contains(t, result.Err.Error(), "failed to decode arguments")
	require.Contains(t, result.Err.Error(), `"input"`)
}

// A step naming a runner type no manifest declares fails its iteration.
func TestErrorHandling_UnknownRunnerType(t *testing.T) {
	t.Parallel()

	flowHCL := `
		step "nonexistent" "ghost" {
			arguments {}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, &print.Module{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `unknown runner type "nonexistent"`)
}

type mismatchedInput struct {
	Count int `pggo:"count"`
}

// mismatchedModule declares `count` as string in its manifest while the Go
// struct binds an int, so registry validation must reject it at startup.
type mismatchedModule struct{}

func (m *mismatchedModule) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunMismatched", &registry.RegisteredRunner{
		NewInput:  func() any { return new(mismatchedInput) },
		InputType: reflect.TypeOf(mismatchedInput{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn: func(ctx context.Context, deps *struct{}, input *mismatchedInput) (any, error) {
			return nil, nil
		},
	})
}

func (m *mismatchedModule) Manifest() config.Source {
	return config.Source{Name: "test/mismatched_manifest.hcl", Content: `
		runner "mismatched" {
			lifecycle {
				on_run = "OnRunMismatched"
			}
			input "count" {
				type = string
			}
		}
	`}
}

// Manifest and Go struct disagreeing on an input type is a startup failure.
func TestErrorHandling_ManifestTypeParityFailsStartup(t *testing.T) {
	t.Parallel()

	flowHCL := `
		step "mismatched" "m" {
			arguments {
				count = "5"
			}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, &mismatchedModule{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "registry validation failed")
	require.Contains(t, result.Err.Error(), `input "count"`)
}

// A failing step handler surfaces through Run with its iteration and step ID.
func TestErrorHandling_HandlerErrorCarriesStepContext(t *testing.T) {
	t.Parallel()

	failing := &failingModule{}

	flowHCL := `
		params {
			x = ["only"]
		}

		step "failing" "boom" {
			arguments {}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, failing)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "iteration 0")
	require.Contains(t, result.Err.Error(), "step.failing.boom")
	require.Contains(t, result.Err.Error(), "synthetic handler failure")
}
