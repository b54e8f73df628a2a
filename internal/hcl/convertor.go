package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
)

// FieldTag is the struct tag that binds a handler input field to a manifest
// input name.
const FieldTag = "pggo"

// Converter is the HCL implementation of config.Converter.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeBody evaluates argument expressions against evalCtx and populates the
// given input struct, applying manifest defaults for omitted optional inputs.
func (c *Converter) DecodeBody(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	defs map[string]*config.InputDefinition,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("input struct must be a non-nil pointer, got %T", inputStruct)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		lookupName := field.Name
		if tag := field.Tag.Get(FieldTag); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}

		inputDef, declared := defs[lookupName]
		if !declared {
			continue
		}

		targetPtr := fieldVal.Addr().Interface()
		argExpr, provided := args[lookupName]

		if provided {
			val, diags := argExpr.Value(evalCtx)
			if diags.HasErrors() {
				return diags
			}
			if err := c.decode(val, targetPtr); err != nil {
				return fmt.Errorf("failed to decode argument %q: %w", lookupName, err)
			}
			continue
		}

		if inputDef.Default != nil {
			logger.Debug("Applying manifest default.", "input", lookupName)
			if err := c.decode(*inputDef.Default, targetPtr); err != nil {
				return fmt.Errorf("failed to apply default for %q: %w", lookupName, err)
			}
			continue
		}
		if !inputDef.Optional {
			return fmt.Errorf("missing required argument %q", lookupName)
		}
	}
	return nil
}

// decode converts a cty value into the Go value behind the given pointer,
// going through an implied-type conversion when one exists.
func (c *Converter) decode(val cty.Value, goVal any) error {
	target := reflect.ValueOf(goVal)
	if target.Kind() != reflect.Ptr {
		return fmt.Errorf("decode target must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(target.Elem().Interface())
	if err != nil {
		// No cty equivalent for the Go type; let gocty attempt it directly.
		return gocty.FromCtyValue(val, goVal)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, goVal)
}

// ToCtyValue converts a native Go value returned by a handler into cty.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty type for %T: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}
