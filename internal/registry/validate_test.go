package registry

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/paramgridgo/internal/config"
)

type validInput struct {
	Name  string            `pggo:"name"`
	Count int               `pggo:"count"`
	Tags  map[string]string `pggo:"tags"`
}

func runnerDef(inputs map[string]*config.InputDefinition) *config.RunnerDefinition {
	return &config.RunnerDefinition{
		Type:      "sample",
		Lifecycle: &config.Lifecycle{OnRun: "OnRunSample"},
		Inputs:    inputs,
	}
}

func registryWith(def *config.RunnerDefinition, inputType reflect.Type) *Registry {
	r := New()
	r.RunnerHandlers["OnRunSample"] = &RegisteredRunner{InputType: inputType}
	r.RunnerDefinitions["sample"] = def
	return r
}

func TestValidate_MatchingRunnerPasses(t *testing.T) {
	t.Parallel()

	r := registryWith(runnerDef(map[string]*config.InputDefinition{
		"name":  {Name: "name", Type: cty.String},
		"count": {Name: "count", Type: cty.Number},
		"tags":  {Name: "tags", Type: cty.Map(cty.String)},
	}), reflect.TypeOf(validInput{}))

	require.NoError(t, r.Validate(context.Background()))
}

func TestValidate_UndeclaredStructFieldFails(t *testing.T) {
	t.Parallel()

	r := registryWith(runnerDef(map[string]*config.InputDefinition{
		"name": {Name: "name", Type: cty.String},
	}), reflect.TypeOf(validInput{}))

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `binds input "count" which the manifest does not declare`)
	require.Contains(t, err.Error(), `binds input "tags" which the manifest does not declare`)
}

func TestValidate_UndeclaredManifestInputFails(t *testing.T) {
	t.Parallel()

	type narrowInput struct {
		Name string `pggo:"name"`
	}
	r := registryWith(runnerDef(map[string]*config.InputDefinition{
		"name":  {Name: "name", Type: cty.String},
		"extra": {Name: "extra", Type: cty.String},
	}), reflect.TypeOf(narrowInput{}))

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `manifest declares input "extra" with no matching Go struct field`)
}

func TestValidate_TypeMismatchFails(t *testing.T) {
	t.Parallel()

	type stringCount struct {
		Count string `pggo:"count"`
	}
	r := registryWith(runnerDef(map[string]*config.InputDefinition{
		"count": {Name: "count", Type: cty.Number},
	}), reflect.TypeOf(stringCount{}))

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "manifest requires number but Go field Count provides string")
}

func TestValidate_DynamicTypeSkipsCheck(t *testing.T) {
	t.Parallel()

	type anyInput struct {
		Value string `pggo:"value"`
	}
	r := registryWith(runnerDef(map[string]*config.InputDefinition{
		"value": {Name: "value", Type: cty.DynamicPseudoType},
	}), reflect.TypeOf(anyInput{}))

	require.NoError(t, r.Validate(context.Background()))
}

func TestValidate_MissingHandlerFails(t *testing.T) {
	t.Parallel()

	r := New()
	r.RunnerDefinitions["sample"] = runnerDef(nil)

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `handler "OnRunSample" is not registered`)
}

func TestValidate_RunnerWithoutOnRunFails(t *testing.T) {
	t.Parallel()

	r := New()
	r.RunnerDefinitions["sample"] = &config.RunnerDefinition{Type: "sample"}

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "manifest declares no on_run handler")
}

func TestValidate_AssetRequiresBothLifecycleHandlers(t *testing.T) {
	t.Parallel()

	r := New()
	r.AssetDefinitions["pool"] = &config.AssetDefinition{
		Type:      "pool",
		Lifecycle: &config.AssetLifecycle{Create: "CreatePool"},
	}

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "must declare create and destroy handlers")
}

func TestValidate_AssetHandlerMustProvideBothFns(t *testing.T) {
	t.Parallel()

	r := New()
	r.AssetDefinitions["pool"] = &config.AssetDefinition{
		Type:      "pool",
		Lifecycle: &config.AssetLifecycle{Create: "CreatePool", Destroy: "DestroyPool"},
	}
	r.AssetHandlers["CreatePool"] = &RegisteredAsset{
		CreateFn: func() {},
	}

	err := r.Validate(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "must provide both create and destroy functions")
}

func TestRegisterRunner_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterRunner("OnRunDup", &RegisteredRunner{})
	require.PanicsWithValue(t, `runner handler "OnRunDup" already registered`, func() {
		r.RegisterRunner("OnRunDup", &RegisteredRunner{})
	})
}
