// Package paramtable holds the parametrization table: a named set of value
// lists that the runner iterates in lock step, producing one binding set per
// iteration.
//
// A Table is immutable after construction, so all of its methods are pure
// reads and safe for unsynchronized concurrent use. Length consistency is a
// soft invariant: a Table is constructible with ragged lists, and callers
// decide whether to reject that state (Validate) or iterate through it with
// empty-string padding (Iteration).
package paramtable
