package integration_tests

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/registry"
)

// chainModule is a configurable runner used to test output chaining between
// steps. Each instance registers one runner type whose handler receives a
// map(string) argument and may return a value with a "tag" output.
type chainModule struct {
	name  string
	onRun func(input map[string]string) (any, error)
}

type chainInput struct {
	Values map[string]string `pggo:"values"`
}

func (m *chainModule) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunChain_"+m.name, &registry.RegisteredRunner{
		NewInput:  func() any { return new(chainInput) },
		InputType: reflect.TypeOf(chainInput{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn: func(ctx context.Context, deps *struct{}, input *chainInput) (any, error) {
			return m.onRun(input.Values)
		},
	})
}

func (m *chainModule) Manifest() config.Source {
	return config.Source{
		Name: fmt.Sprintf("test/%s_manifest.hcl", m.name),
		Content: fmt.Sprintf(`
			runner "%s" {
				lifecycle {
					on_run = "OnRunChain_%s"
				}
				input "values" {
					type = map(string)
				}
				output "tag" {
					type = string
				}
			}
		`, m.name, m.name),
	}
}
