package registry

import (
	"github.com/vk/paramgridgo/internal/config"
)

// Module is implemented by every built-in module: it registers its Go
// handlers and supplies the manifest describing them.
type Module interface {
	Register(r *Registry)
	Manifest() config.Source
}

// Registry holds the registered handlers and the loaded definitions for a
// single application instance.
type Registry struct {
	RunnerHandlers    map[string]*RegisteredRunner
	AssetHandlers     map[string]*RegisteredAsset
	RunnerDefinitions map[string]*config.RunnerDefinition
	AssetDefinitions  map[string]*config.AssetDefinition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		RunnerHandlers:    make(map[string]*RegisteredRunner),
		AssetHandlers:     make(map[string]*RegisteredAsset),
		RunnerDefinitions: make(map[string]*config.RunnerDefinition),
		AssetDefinitions:  make(map[string]*config.AssetDefinition),
	}
}

// PopulateDefinitionsFromModel copies the loaded runner and asset definitions
// from the config model into the registry.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, def := range model.Runners {
		r.RunnerDefinitions[key] = def
	}
	for key, def := range model.Assets {
		r.AssetDefinitions[key] = def
	}
}
