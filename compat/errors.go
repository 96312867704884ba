package compat

import "fmt"

// NoMatchingDependentError reports that nothing in the lockfile depends
// on the requested crate, so there is no requirement to satisfy.
type NoMatchingDependentError struct {
	Crate string
}

func (e *NoMatchingDependentError) Error() string {
	return fmt.Sprintf("no package in the lockfile depends on %s", e.Crate)
}

// DependencyMismatchError reports that the lockfile names a dependent of
// the crate but the registry's dependency list for that dependent
// version does not mention it. This usually means the lockfile and the
// registry disagree about what the dependent was built from.
type DependencyMismatchError struct {
	Crate     string
	Dependent string
	Version   string
}

func (e *DependencyMismatchError) Error() string {
	return fmt.Sprintf("registry lists no dependency on %s for %s %s", e.Crate, e.Dependent, e.Version)
}

// OnlyYankedMatchesError reports that every release inside the combined
// bound has been yanked. Rerunning with yanked releases included will
// show them.
type OnlyYankedMatchesError struct {
	Crate string
	Bound string
}

func (e *OnlyYankedMatchesError) Error() string {
	return fmt.Sprintf("every version of %s in %s has been yanked", e.Crate, e.Bound)
}

// InvalidMaxRustVersionError reports an unparseable Rust version limit.
type InvalidMaxRustVersionError struct {
	Value string
	Err   error
}

func (e *InvalidMaxRustVersionError) Error() string {
	return fmt.Sprintf("invalid max rust version %q: %v", e.Value, e.Err)
}

func (e *InvalidMaxRustVersionError) Unwrap() error {
	return e.Err
}

// UnsatisfiableMaxRustVersionError reports that the MSRV filter removed
// every otherwise compatible release.
type UnsatisfiableMaxRustVersionError struct {
	Crate          string
	MaxRustVersion string
}

func (e *UnsatisfiableMaxRustVersionError) Error() string {
	return fmt.Sprintf("no compatible version of %s supports Rust %s or older", e.Crate, e.MaxRustVersion)
}
