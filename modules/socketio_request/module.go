// Package socketio_request provides the built-in 'socketio_request' runner:
// per iteration it connects to a socket.io server, emits one event carrying
// the iteration's data, waits for a response event, and disconnects.
package socketio_request

import (
	"context"
	"crypto/tls"
	"encoding/json"
	_ "embed"
	"fmt"
	"net/url"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/registry"
)

//go:embed manifest.hcl
var manifest string

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio_request runner.
type Input struct {
	URL                string            `pggo:"url"`
	Namespace          string            `pggo:"namespace"`
	EmitEvent          string            `pggo:"emit_event"`
	EmitData           map[string]string `pggo:"emit_data"`
	OnEvent            string            `pggo:"on_event"`
	Timeout            string            `pggo:"timeout"`
	InsecureSkipVerify bool              `pggo:"insecure_skip_verify"`
}

// Deps is empty because this runner manages its own connection.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	// Response carries the first payload of the response event, rendered as
	// JSON so its shape stays uniform across iterations.
	Response string `cty:"response"`
}

// opResult passes results through the done channel.
type opResult struct {
	value *Output
	err   error
}

// OnRunSocketIORequest is the handler for the 'socketio_request' runner.
func OnRunSocketIORequest(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx).With("runner", "socketio_request", "url", input.URL, "emitEvent", input.EmitEvent, "onEvent", input.OnEvent)
	logger.Debug("Handler started.")
	defer logger.Debug("Handler finished.")

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Debug("Connected.", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			logger.Debug("Emitting event.", "event", input.EmitEvent)
			io.Emit(input.EmitEvent, input.EmitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- opResult{err: err}
				return
			}
		}
		done <- opResult{err: fmt.Errorf("connection failed")}
	})

	io.Once(types.EventName(input.OnEvent), func(data ...any) {
		var payload []byte
		if len(data) > 0 {
			var err error
			payload, err = json.Marshal(data[0])
			if err != nil {
				done <- opResult{err: fmt.Errorf("failed to encode response payload: %w", err)}
				return
			}
		}
		done <- opResult{value: &Output{Response: string(payload)}}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after %v waiting for event %q", timeout, input.OnEvent)
		}
		return nil, fmt.Errorf("timed out after %v waiting for initial connection", timeout)
	case res := <-done:
		return res.value, res.err
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunSocketIORequest", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunSocketIORequest,
	})
}

// Manifest returns the embedded manifest source.
func (m *Module) Manifest() config.Source {
	return config.Source{Name: "modules/socketio_request/manifest.hcl", Content: manifest}
}
