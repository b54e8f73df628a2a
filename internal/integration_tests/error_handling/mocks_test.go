package integration_tests

import (
	"context"
	"errors"
	"reflect"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/registry"
)

// failingModule registers a runner whose handler always returns an error.
type failingModule struct{}

func (m *failingModule) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunFailing", &registry.RegisteredRunner{
		NewInput:  func() any { return new(struct{}) },
		InputType: reflect.TypeOf(struct{}{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn: func(ctx context.Context, deps *struct{}, input *struct{}) (any, error) {
			return nil, errors.New("synthetic handler failure")
		},
	})
}

func (m *failingModule) Manifest() config.Source {
	return config.Source{Name: "test/failing_manifest.hcl", Content: `
		runner "failing" {
			lifecycle {
				on_run = "OnRunFailing"
			}
		}
	`}
}
