// Package executor runs a loaded flow once per iteration of its
// parametrization table.
//
// Resources are created before the first iteration and destroyed after the
// last one, so a single live object (for example an HTTP client) is shared
// across every iteration. Within an iteration, steps execute sequentially in
// file order; each step's arguments are evaluated against an HCL context
// exposing `param.<name>` (the iteration's binding set), `iteration.index`
// and `iteration.count`, and `step.<runner_type>.<name>.output` for steps
// that already ran in the same iteration.
package executor
