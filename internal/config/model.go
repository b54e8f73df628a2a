package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of everything the app loaded: module
// definitions plus the user's flow.
type Model struct {
	Runners map[string]*RunnerDefinition
	Assets  map[string]*AssetDefinition
	Flow    *Flow
}

// Flow is the user's execution definition: the parametrization data and the
// ordered steps to run once per iteration.
type Flow struct {
	// Params maps a variable name to its ordered list of values, exactly as
	// written in the params block. The executor wraps it in a
	// paramtable.Table.
	Params map[string][]string

	Steps     []*Step
	Resources []*Resource
}

// Step is the format-agnostic representation of a `step` block. Arguments
// stay as unevaluated expressions; they are evaluated once per iteration
// against that iteration's binding set.
type Step struct {
	RunnerType string
	Name       string
	Arguments  map[string]hcl.Expression
	Uses       map[string]hcl.Expression
}

// Resource is the format-agnostic representation of a `resource` block.
// Resources are created once per run, before the first iteration.
type Resource struct {
	AssetType string
	Name      string
	Arguments map[string]hcl.Expression
}

// RunnerDefinition is a runner's manifest: its lifecycle handler name and
// declared inputs, outputs, and asset dependencies.
type RunnerDefinition struct {
	Type        string
	Description string
	Lifecycle   *Lifecycle
	Inputs      map[string]*InputDefinition
	Outputs     map[string]*OutputDefinition
	Uses        map[string]*UsesDefinition
}

// AssetDefinition is an asset's manifest.
type AssetDefinition struct {
	Type        string
	Description string
	Lifecycle   *AssetLifecycle
	Inputs      map[string]*InputDefinition
	Outputs     map[string]*OutputDefinition
}

// Lifecycle maps a runner's events to Go handler names.
type Lifecycle struct {
	OnRun string
}

// AssetLifecycle maps an asset's events to Go handler names.
type AssetLifecycle struct {
	Create  string
	Destroy string
}

// InputDefinition declares a single input argument for a runner or asset.
type InputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
}

// OutputDefinition declares a single output value from a runner.
type OutputDefinition struct {
	Name        string
	Type        cty.Type
	Description string
}

// UsesDefinition declares an asset dependency of a runner.
type UsesDefinition struct {
	LocalName string
	AssetType string
}
