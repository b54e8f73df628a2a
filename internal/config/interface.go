package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Source is an in-memory configuration document, used for module manifests
// that are embedded in the binary. Name only appears in diagnostics.
type Source struct {
	Name    string
	Content string
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load parses the given inline sources and file paths (files or
	// directories) into a single merged model and returns the matching
	// Converter.
	Load(ctx context.Context, sources []Source, paths ...string) (*Model, Converter, error)
}

// Converter bridges raw configuration values and the Go structs that module
// handlers receive.
type Converter interface {
	// DecodeBody evaluates the given argument expressions against evalCtx and
	// populates inputStruct, applying declared defaults and rejecting missing
	// required arguments.
	DecodeBody(
		ctx context.Context,
		inputStruct any,
		args map[string]hcl.Expression,
		defs map[string]*InputDefinition,
		evalCtx *hcl.EvalContext,
	) error

	// ToCtyValue converts a native Go value returned by a handler into the
	// engine's internal value representation.
	ToCtyValue(v any) (cty.Value, error)
}
