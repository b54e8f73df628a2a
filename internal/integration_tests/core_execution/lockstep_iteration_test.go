package integration_tests

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/registry"
	"github.com/vk/paramgridgo/internal/testutil"
)

// recordedRow captures the values one step invocation received.
type recordedRow struct {
	Product  string
	Category string
	Index    int
}

type recordInput struct {
	Product  string `pggo:"product"`
	Category string `pggo:"category"`
	Index    int    `pggo:"index"`
}

// recordModule registers a runner that appends every invocation's decoded
// input to a shared slice.
type recordModule struct {
	mu   sync.Mutex
	rows []recordedRow
}

func (m *recordModule) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunRecord", &registry.RegisteredRunner{
		NewInput:  func() any { return new(recordInput) },
		InputType: reflect.TypeOf(recordInput{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn: func(ctx context.Context, deps *struct{}, input *recordInput) (any, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.rows = append(m.rows, recordedRow{
				Product:  input.Product,
				Category: input.Category,
				Index:    input.Index,
			})
			return nil, nil
		},
	})
}

func (m *recordModule) Manifest() config.Source {
	return config.Source{Name: "test/record_manifest.hcl", Content: `
		runner "record" {
			lifecycle {
				on_run = "OnRunRecord"
			}
			input "product" {
				type = string
			}
			input "category" {
				type = string
			}
			input "index" {
				type = number
			}
		}
	`}
}

// The flow runs once per params row, binding param.<name> in lock step.
func TestCoreExecution_LockstepIteration(t *testing.T) {
	t.Parallel()

	flowHCL := `
		params {
			productName = ["Phone", "Laptop", "Shirt"]
			category    = ["Electronics", "Electronics", "Apparel"]
		}

		step "record" "row" {
			arguments {
				product  = param.productName
				category = param.category
				index    = iteration.index
			}
		}
	`

	mod := &recordModule{}
	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, mod)

	require.NoError(t, result.Err)
	testutil.AssertIterationCount(t, result, 3)
	testutil.AssertStepRan(t, result, "record", "row")

	require.Equal(t, []recordedRow{
		{Product: "Phone", Category: "Electronics", Index: 0},
		{Product: "Laptop", Category: "Electronics", Index: 1},
		{Product: "Shirt", Category: "Apparel", Index: 2},
	}, mod.rows)
}

// A flow without a params block executes exactly once.
func TestCoreExecution_UnparametrizedFlowRunsOnce(t *testing.T) {
	t.Parallel()

	flowHCL := `
		step "record" "solo" {
			arguments {
				product  = "fixed"
				category = "none"
				index    = iteration.index
			}
		}
	`

	mod := &recordModule{}
	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, mod)

	require.NoError(t, result.Err)
	testutil.AssertIterationCount(t, result, 1)
	require.Equal(t, []recordedRow{{Product: "fixed", Category: "none", Index: 0}}, mod.rows)
}

// Steps in the same iteration see outputs of earlier steps via step.<type>.<name>.
func TestCoreExecution_StepOutputChaining(t *testing.T) {
	t.Parallel()

	type produceOutput struct {
		Tag string `cty:"tag"`
	}
	var produced []string
	var mu sync.Mutex

	producer := &chainModule{
		name: "produce",
		onRun: func(input map[string]string) (any, error) {
			return &produceOutput{Tag: "made-" + input["from"]}, nil
		},
	}
	consumer := &chainModule{
		name: "consume",
		onRun: func(input map[string]string) (any, error) {
			mu.Lock()
			defer mu.Unlock()
			produced = append(produced, input["from"])
			return nil, nil
		},
	}

	flowHCL := `
		params {
			item = ["a", "b"]
		}

		step "produce" "first" {
			arguments {
				values = { from = param.item }
			}
		}

		step "consume" "second" {
			arguments {
				values = { from = step.produce.first.output.tag }
			}
		}
	`

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL}, producer, consumer)

	require.NoError(t, result.Err)
	testutil.AssertIterationCount(t, result, 2)
	require.Equal(t, []string{"made-a", "made-b"}, produced)
}
