package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/schema"
)

// translateParams decodes a params block into the name -> values mapping.
// Each attribute must convert to list(string). Values land in the model
// verbatim; length consistency is the paramtable's concern, not the loader's.
func (l *Loader) translateParams(dest map[string][]string, block *schema.ParamsBlock) error {
	if block == nil || block.Body == nil {
		return nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("invalid params block: %w", diags)
	}
	for name, attr := range attrs {
		if _, exists := dest[name]; exists {
			return fmt.Errorf("params variable %q declared more than once", name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("params variable %q: %w", name, diags)
		}
		listVal, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return fmt.Errorf("params variable %q must be a list of strings: %w", name, err)
		}
		values := []string{}
		for it := listVal.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() {
				return fmt.Errorf("params variable %q contains a null value", name)
			}
			values = append(values, elem.AsString())
		}
		dest[name] = values
	}
	return nil
}

// translateStep converts the HCL step schema into the agnostic model.
func (l *Loader) translateStep(s *schema.Step) *config.Step {
	step := &config.Step{
		RunnerType: s.RunnerType,
		Name:       s.Name,
	}
	if s.Arguments != nil {
		step.Arguments = extractBodyAttributes(s.Arguments.Body)
	}
	if s.Uses != nil {
		step.Uses = extractBodyAttributes(s.Uses.Body)
	}
	return step
}

// translateResource converts the HCL resource schema into the agnostic model.
func (l *Loader) translateResource(s *schema.Resource) *config.Resource {
	resource := &config.Resource{
		AssetType: s.AssetType,
		Name:      s.Name,
	}
	if s.Arguments != nil {
		resource.Arguments = extractBodyAttributes(s.Arguments.Body)
	}
	return resource
}

// translateRunnerDefinition converts a runner manifest into the agnostic model.
func (l *Loader) translateRunnerDefinition(ctx context.Context, s *schema.RunnerDefinition) (*config.RunnerDefinition, error) {
	def := &config.RunnerDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
		Uses:        make(map[string]*config.UsesDefinition),
	}
	if s.Lifecycle != nil {
		def.Lifecycle = &config.Lifecycle{OnRun: s.Lifecycle.OnRun}
	}
	for _, in := range s.Inputs {
		input, err := translateInput(in, def.Type)
		if err != nil {
			return nil, err
		}
		def.Inputs[in.Name] = input
	}
	for _, out := range s.Outputs {
		outputType, err := translateTypeExpr(out.Type)
		if err != nil {
			return nil, fmt.Errorf("runner %q, output %q: %w", def.Type, out.Name, err)
		}
		def.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        outputType,
			Description: out.Description,
		}
	}
	for _, use := range s.Uses {
		def.Uses[use.LocalName] = &config.UsesDefinition{
			LocalName: use.LocalName,
			AssetType: use.AssetType,
		}
	}
	return def, nil
}

// translateAssetDefinition converts an asset manifest into the agnostic model.
func (l *Loader) translateAssetDefinition(ctx context.Context, s *schema.AssetDefinition) (*config.AssetDefinition, error) {
	def := &config.AssetDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
	}
	if s.Lifecycle != nil {
		def.Lifecycle = &config.AssetLifecycle{Create: s.Lifecycle.Create, Destroy: s.Lifecycle.Destroy}
	}
	for _, in := range s.Inputs {
		input, err := translateInput(in, def.Type)
		if err != nil {
			return nil, err
		}
		def.Inputs[in.Name] = input
	}
	for _, out := range s.Outputs {
		outputType, err := translateTypeExpr(out.Type)
		if err != nil {
			return nil, fmt.Errorf("asset %q, output %q: %w", def.Type, out.Name, err)
		}
		def.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        outputType,
			Description: out.Description,
		}
	}
	return def, nil
}

// translateInput resolves an input's type expression and normalizes its
// default. An input with a usable default is implicitly optional.
func translateInput(in *schema.InputDefinition, owner string) (*config.InputDefinition, error) {
	inputType, err := translateTypeExpr(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%q, input %q: %w", owner, in.Name, err)
	}

	var defaultVal *cty.Value
	var optional bool
	if in.Default != nil && !in.Default.IsNull() {
		converted, err := convert.Convert(*in.Default, inputType)
		if err != nil {
			return nil, fmt.Errorf("%q, input %q: default does not match declared type: %w", owner, in.Name, err)
		}
		defaultVal = &converted
		optional = true
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        inputType,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    optional,
	}, nil
}

// translateTypeExpr evaluates a manifest type expression such as `string` or
// `map(string)` into a cty type constraint.
func translateTypeExpr(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid type expression: %w", diags)
	}
	return ty, nil
}

// extractBodyAttributes flattens a block body into its attribute expressions.
func extractBodyAttributes(body hcl.Body) map[string]hcl.Expression {
	if body == nil {
		return nil
	}
	attrs, _ := body.JustAttributes()
	if len(attrs) == 0 {
		return nil
	}
	exprs := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprs[name] = attr.Expr
	}
	return exprs
}
