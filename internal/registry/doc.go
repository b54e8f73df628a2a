// Package registry glues module manifests to compiled Go handlers.
//
// Each built-in module registers its handler functions under the names its
// manifest refers to (e.g. "OnRunPrint"), and contributes the manifest source
// itself. At startup the registry is validated against the loaded
// definitions: every declared input must have a matching, type-compatible
// field on the handler's input struct, and vice versa. This catches
// manifest/code drift before any iteration runs.
package registry
