// Package config defines the format-agnostic configuration model for the
// application, along with the interfaces (Loader, Converter) that a concrete
// format implementation must provide.
//
// The config.Model is the single source of truth for the executor: it holds
// the parametrization data, the flow's steps and resources, and the module
// definitions against which the registry is validated. The HCL implementation
// lives in internal/hcl.
package config
