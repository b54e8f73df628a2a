package paramtable

import (
	"fmt"
	"sort"
	"strings"
)

// BindingSet maps a variable name to the single value it carries for one
// iteration. It is recomputed per call and owned by the caller.
type BindingSet map[string]string

// Table is an immutable mapping from variable name to an ordered list of
// string values.
type Table struct {
	data map[string][]string
}

// New builds a Table from the given data. The input is deep-copied, so later
// mutation of the argument does not affect the Table.
func New(data map[string][]string) *Table {
	copied := make(map[string][]string, len(data))
	for name, values := range data {
		copied[name] = append([]string(nil), values...)
	}
	return &Table{data: copied}
}

// IterationCount returns the maximum list length across all variables, or 0
// for an empty table.
func (t *Table) IterationCount() int {
	max := 0
	for _, values := range t.data {
		if len(values) > max {
			max = len(values)
		}
	}
	return max
}

// Iteration returns the binding set for the zero-based iteration index. The
// second return value is false once index reaches IterationCount; running off
// the end is the expected loop-termination signal, not an error.
//
// Every variable of the table appears in a present result. A list shorter
// than index+1 contributes an empty string for its variable, so ragged tables
// never shrink the key coverage of a binding set.
func (t *Table) Iteration(index int) (BindingSet, bool) {
	if index < 0 || index >= t.IterationCount() {
		return nil, false
	}
	bindings := make(BindingSet, len(t.data))
	for name, values := range t.data {
		if index < len(values) {
			bindings[name] = values[index]
		} else {
			bindings[name] = ""
		}
	}
	return bindings, true
}

// IsValid reports whether all value lists share one length. An empty table
// is valid.
func (t *Table) IsValid() bool {
	length := -1
	for _, values := range t.data {
		if length == -1 {
			length = len(values)
			continue
		}
		if len(values) != length {
			return false
		}
	}
	return true
}

// Names returns the variable names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.data))
	for name := range t.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate returns nil when IsValid holds, and a *MismatchError describing
// the offending variables otherwise.
func (t *Table) Validate() error {
	if t.IsValid() {
		return nil
	}
	groups := make(map[int][]string)
	for name, values := range t.data {
		groups[len(values)] = append(groups[len(values)], name)
	}
	for _, names := range groups {
		sort.Strings(names)
	}
	return &MismatchError{Groups: groups}
}

// MismatchError reports ragged value lists. Groups maps each distinct list
// length to the sorted names of the variables with that length.
type MismatchError struct {
	Groups map[int][]string
}

// Error renders the groups with lengths ascending, so a human can spot which
// variable is miscounted.
func (e *MismatchError) Error() string {
	lengths := make([]int, 0, len(e.Groups))
	for length := range e.Groups {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	parts := make([]string, 0, len(lengths))
	for _, length := range lengths {
		parts = append(parts, fmt.Sprintf("length %d: [%s]", length, strings.Join(e.Groups[length], ", ")))
	}
	return "params lists have mismatched lengths: " + strings.Join(parts, "; ")
}
