package bound

import (
	"fmt"
	"strings"
)

// UnsupportedOperatorError reports a comparator operator that has no single
// contiguous interval, such as "!=".
type UnsupportedOperatorError struct {
	Op string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Op)
}

// EmptyConstraintError reports a requirement that declares no comparators.
type EmptyConstraintError struct {
	Requirement string
}

func (e *EmptyConstraintError) Error() string {
	return fmt.Sprintf("requirement %q declares no comparators", e.Requirement)
}

// NonOverlappingBoundsError reports a requirement whose comparators are
// individually valid but leave no version when intersected, such as
// ">=2.0, <1.0".
type NonOverlappingBoundsError struct {
	Requirement string
}

func (e *NonOverlappingBoundsError) Error() string {
	return fmt.Sprintf("requirement %q has non-overlapping comparators", e.Requirement)
}

// DisjointBoundsError reports two bounds that share no version.
type DisjointBoundsError struct {
	A Bound
	B Bound
}

func (e *DisjointBoundsError) Error() string {
	return fmt.Sprintf("bounds %s and %s do not overlap", e.A, e.B)
}

// SingleUnsatisfiableError reports that one dependent alone pinned the
// combined bound to a window holding no published release.
type SingleUnsatisfiableError struct {
	Crate     string
	Dependent Dependent
}

func (e *SingleUnsatisfiableError) Error() string {
	return fmt.Sprintf("no published version of %s satisfies %q required by %s %s",
		e.Crate, e.Dependent.Requirement, e.Dependent.Name, e.Dependent.Version)
}

// PairwiseUnsatisfiableError reports two dependents that cannot be satisfied
// together: one owns the surviving lower boundary, the other the surviving
// upper.
type PairwiseUnsatisfiableError struct {
	Crate          string
	LowerDependent Dependent
	UpperDependent Dependent
}

func (e *PairwiseUnsatisfiableError) Error() string {
	return fmt.Sprintf("no published version of %s satisfies both %q required by %s %s and %q required by %s %s",
		e.Crate,
		e.LowerDependent.Requirement, e.LowerDependent.Name, e.LowerDependent.Version,
		e.UpperDependent.Requirement, e.UpperDependent.Name, e.UpperDependent.Version)
}

// MultiUnsatisfiableError reports a dependent whose bound is incompatible
// with the intersection built from the dependents before it. Conflicting
// holds the earlier dependents individually disjoint from it.
type MultiUnsatisfiableError struct {
	Crate       string
	Dependent   Dependent
	Conflicting []Dependent
}

func (e *MultiUnsatisfiableError) Error() string {
	if len(e.Conflicting) == 0 {
		return fmt.Sprintf("requirement %q for %s by %s %s conflicts with the combined requirements of the other dependents",
			e.Dependent.Requirement, e.Crate, e.Dependent.Name, e.Dependent.Version)
	}
	parts := make([]string, len(e.Conflicting))
	for i, d := range e.Conflicting {
		parts[i] = fmt.Sprintf("%s %s (%s)", d.Name, d.Version, d.Requirement)
	}
	return fmt.Sprintf("requirement %q for %s by %s %s conflicts with %s",
		e.Dependent.Requirement, e.Crate, e.Dependent.Name, e.Dependent.Version,
		strings.Join(parts, ", "))
}
