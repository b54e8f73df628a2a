// Package http_request provides the built-in 'http_request' runner: one HTTP
// request per iteration, with method, URL, headers, and body all evaluated
// against the iteration's parameter bindings.
package http_request

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

//go:embed manifest.hcl
var manifest string

// maxResponseBytes caps how much of a response body lands in the step output.
const maxResponseBytes = 1 << 20

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the http_request runner.
type Input struct {
	Method  string            `pggo:"method"`
	URL     string            `pggo:"url"`
	Body    string            `pggo:"body"`
	Headers map[string]string `pggo:"headers"`
}

// Deps declares the resources injected from the 'uses' block.
type Deps struct {
	Client *http.Client `pggo:"client"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Status int    `cty:"status"`
	Body   string `cty:"body"`
}

// OnRunHTTPRequest is the handler for the 'http_request' runner.
func OnRunHTTPRequest(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx).With("runner", "http_request", "method", input.Method, "url", input.URL)

	if deps.Client == nil {
		return nil, fmt.Errorf("http client dependency was not injected")
	}

	var body io.Reader
	if input.Body != "" {
		body = strings.NewReader(input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, input.Method, input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for name, value := range input.Headers {
		req.Header.Set(name, value)
	}

	logger.Debug("Sending request.")
	resp, err := deps.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Info("Request finished.", "status", resp.StatusCode, "bytes", len(respBody))
	return &Output{Status: resp.StatusCode, Body: string(respBody)}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunHTTPRequest", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunHTTPRequest,
	})
}

// Manifest returns the embedded manifest source.
func (m *Module) Manifest() config.Source {
	return config.Source{Name: "modules/http_request/manifest.hcl", Content: manifest}
}
