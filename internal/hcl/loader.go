package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/paramgridgo/internal/config"
	"github.com/vk/paramgridgo/internal/ctxlog"
	"github.com/vk/paramgridgo/internal/fsutil"
	"github.com/vk/paramgridgo/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses all inline sources and .hcl files found under the given paths
// into one merged model. Any block kind may appear in any file.
func (l *Loader) Load(ctx context.Context, sources []config.Source, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "sources", len(sources), "paths", len(paths))

	model := &config.Model{
		Runners: make(map[string]*config.RunnerDefinition),
		Assets:  make(map[string]*config.AssetDefinition),
		Flow: &config.Flow{
			Params: make(map[string][]string),
		},
	}

	parser := hclparse.NewParser()

	var bodies []namedBody
	for _, src := range sources {
		file, diags := parser.ParseHCL([]byte(src.Content), src.Name)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse manifest %s: %w", src.Name, diags)
		}
		bodies = append(bodies, namedBody{name: src.Name, body: file.Body})
	}

	files, err := l.findFlowFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered flow files.", "count", len(files))
	for _, path := range files {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", path, diags)
		}
		bodies = append(bodies, namedBody{name: path, body: file.Body})
	}

	for _, nb := range bodies {
		var root schema.FileRoot
		if diags := gohcl.DecodeBody(nb.body, nil, &root); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", nb.name, diags)
		}
		if err := l.mergeFileRoot(ctx, model, &root, nb.name); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug("HCL loading complete.",
		"runners", len(model.Runners),
		"assets", len(model.Assets),
		"params", len(model.Flow.Params),
		"steps", len(model.Flow.Steps),
		"resources", len(model.Flow.Resources),
	)
	return model, NewConverter(), nil
}

// namedBody pairs a parsed HCL body with the name used in diagnostics.
type namedBody struct {
	name string
	body hcl.Body
}

// mergeFileRoot translates one decoded file into the model. Definition and
// variable names must be unique across all loaded documents.
func (l *Loader) mergeFileRoot(ctx context.Context, model *config.Model, root *schema.FileRoot, name string) error {
	for _, runner := range root.Runners {
		def, err := l.translateRunnerDefinition(ctx, runner)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, exists := model.Runners[def.Type]; exists {
			return fmt.Errorf("%s: duplicate runner definition %q", name, def.Type)
		}
		model.Runners[def.Type] = def
	}
	for _, asset := range root.Assets {
		def, err := l.translateAssetDefinition(ctx, asset)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, exists := model.Assets[def.Type]; exists {
			return fmt.Errorf("%s: duplicate asset definition %q", name, def.Type)
		}
		model.Assets[def.Type] = def
	}
	for _, params := range root.Params {
		if err := l.translateParams(model.Flow.Params, params); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, step := range root.Steps {
		model.Flow.Steps = append(model.Flow.Steps, l.translateStep(step))
	}
	for _, resource := range root.Resources {
		model.Flow.Resources = append(model.Flow.Resources, l.translateResource(resource))
	}
	return nil
}

// findFlowFiles expands the given paths into a deduplicated, ordered list of
// .hcl files.
func (l *Loader) findFlowFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		sort.Strings(found)
		for _, f := range found {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}
