// Package hcl implements config.Loader and config.Converter on top of
// hashicorp/hcl. It parses flow files and embedded module manifests into the
// agnostic config model and performs cty-based decoding of step arguments
// into handler input structs.
package hcl
