// Package http_client provides the built-in 'http_client' asset: one shared
// *http.Client created before the first iteration and reused by every
// http_request step, so connections persist across iterations.
package http_client

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

//go:embed manifest.hcl
var manifest string

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for creating an http_client resource.
type Input struct {
	Timeout string `pggo:"timeout"`
}

// CreateHTTPClient is the 'create' handler for the asset. It returns the live
// *http.Client object that steps share.
func CreateHTTPClient(ctx context.Context, input *Input) (*http.Client, error) {
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}
	ctxlog.FromContext(ctx).Debug("Creating shared HTTP client.", "timeout", timeout)
	return &http.Client{Timeout: timeout}, nil
}

// DestroyHTTPClient is the 'destroy' handler for the asset.
func DestroyHTTPClient(client *http.Client) error {
	client.CloseIdleConnections()
	return nil
}

// Register registers the lifecycle handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAsset("CreateHTTPClient", &registry.RegisteredAsset{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		CreateFn:  CreateHTTPClient,
		DestroyFn: DestroyHTTPClient,
	})
}

// Manifest returns the embedded manifest source.
func (m *Module) Manifest() config.Source {
	return config.Source{Name: "modules/http_client/manifest.hcl", Content: manifest}
}
