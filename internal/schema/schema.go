// Package schema holds the HCL block shapes for flow files and module
// manifests, decoded with gohcl before translation into the agnostic
// config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Flow file structures ---

// ParamsBlock is the content of a `params` block: free-form attributes, each
// a list of strings keyed by variable name.
type ParamsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// StepArgs is the content of the `arguments` block within a step or resource.
type StepArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// UsesBlock is the content of the `uses` block within a step.
type UsesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Step is a `step` block: a runnable instance of a defined runner.
type Step struct {
	RunnerType string     `hcl:"runner_type,label"`
	Name       string     `hcl:"instance_name,label"`
	Arguments  *StepArgs  `hcl:"arguments,block"`
	Uses       *UsesBlock `hcl:"uses,block"`
}

// Resource is a `resource` block: a stateful instance of a defined asset,
// created once per run.
type Resource struct {
	AssetType string    `hcl:"asset_type,label"`
	Name      string    `hcl:"instance_name,label"`
	Arguments *StepArgs `hcl:"arguments,block"`
}

// --- Module manifest structures ---

// Lifecycle maps a runner's lifecycle event to a registered Go handler name.
type Lifecycle struct {
	OnRun string `hcl:"on_run,optional"`
}

// AssetLifecycle maps an asset's create and destroy events to registered Go
// handler names.
type AssetLifecycle struct {
	Create  string `hcl:"create"`
	Destroy string `hcl:"destroy"`
}

// InputDefinition declares a single input for a runner or asset. Type is an
// HCL type expression such as `string` or `map(string)`.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
}

// OutputDefinition declares a single output value produced by a runner.
type OutputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// UsesDefinition declares an asset dependency required by a runner.
type UsesDefinition struct {
	LocalName string `hcl:"local_name,label"`
	AssetType string `hcl:"asset_type"`
}

// RunnerDefinition is the manifest for a runnable `runner` type.
type RunnerDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	Lifecycle   *Lifecycle          `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
	Uses        []*UsesDefinition   `hcl:"uses,block"`
}

// AssetDefinition is the manifest for a stateful `asset` type.
type AssetDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	Lifecycle   *AssetLifecycle     `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
}

// FileRoot decodes every block kind this application understands, so runner
// manifests, params, resources, and steps may live in any file.
type FileRoot struct {
	Params    []*ParamsBlock      `hcl:"params,block"`
	Runners   []*RunnerDefinition `hcl:"runner,block"`
	Assets    []*AssetDefinition  `hcl:"asset,block"`
	Steps     []*Step             `hcl:"step,block"`
	Resources []*Resource         `hcl:"resource,block"`
	Remain    hcl.Body            `hcl:",remain"`
}
