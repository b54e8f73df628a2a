package integration_tests

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/paramgridgo/internal/testutil"
	"github.com/vk/paramgridgo/modules/http_client"
	"github.com/vk/paramgridgo/modules/http_request"
)

type receivedRequest struct {
	Method string
	Path   string
	Body   string
	Header string
}

// The http_request runner sends one request per iteration through the shared
// http_client resource, with every argument evaluated against that
// iteration's bindings.
func TestModules_HTTPRequestPerIteration(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var received []receivedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, receivedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Header: r.Header.Get("X-Product"),
		})
		mu.Unlock()
		fmt.Fprintf(w, `{"ok":true,"path":%q}`, r.URL.Path)
	}))
	defer server.Close()

	flowHCL := fmt.Sprintf(`
		params {
			productName = ["Phone", "Laptop"]
			endpoint    = ["/products/phone", "/products/laptop"]
		}

		resource "http_client" "shared" {
			arguments {
				timeout = "5s"
			}
		}

		step "http_request" "submit" {
			arguments {
				method = "POST"
				url    = "%s${param.endpoint}"
				body   = "name=${param.productName}"
				headers = {
					"X-Product" = param.productName
				}
			}
			uses {
				client = resource.http_client.shared
			}
		}
	`, server.URL)

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL},
		&http_client.Module{}, &http_request.Module{})

	require.NoError(t, result.Err)
	testutil.AssertIterationCount(t, result, 2)
	testutil.AssertStepRan(t, result, "http_request", "submit")

	require.Equal(t, []receivedRequest{
		{Method: "POST", Path: "/products/phone", Body: "name=Phone", Header: "Phone"},
		{Method: "POST", Path: "/products/laptop", Body: "name=Laptop", Header: "Laptop"},
	}, received)
}

// Omitted arguments fall back to manifest defaults (GET, empty body).
func TestModules_HTTPRequestManifestDefaults(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	flowHCL := fmt.Sprintf(`
		resource "http_client" "shared" {}

		step "http_request" "ping" {
			arguments {
				url = "%s/ping"
			}
			uses {
				client = resource.http_client.shared
			}
		}
	`, server.URL)

	result := testutil.RunFlowTest(t, map[string]string{"main.hcl": flowHCL},
		&http_client.Module{}, &http_request.Module{})

	require.NoError(t, result.Err)
	testutil.AssertIterationCount(t, result, 1)
	require.Equal(t, []string{"GET"}, methods)
}
