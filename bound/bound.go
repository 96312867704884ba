// Package bound computes, for one crate, the contiguous version interval that
// satisfies every dependent's requirement, and locates that interval in the
// crate's published release list.
//
// The pipeline has three steps: Translate turns a parsed requirement into an
// abstract Bound, Combine intersects the bounds of all dependents while
// tracking which dependent owns each surviving boundary, and Locate maps the
// combined bound onto concrete published versions. Each step is pure; all
// I/O lives with the callers.
package bound

import (
	"fmt"
	"math"

	"github.com/Masterminds/semver/v3"

	"github.com/cratecompat/cratecompat/constraint"
)

var (
	minVersion = semver.New(0, 0, 0, "", "")
	maxVersion = semver.New(math.MaxUint64, math.MaxUint64, math.MaxUint64, "", "")
)

// Range is one boundary of an interval: a version plus whether the version
// itself is admitted.
type Range struct {
	Version   *semver.Version
	Inclusive bool
}

// Bound is a contiguous version interval. A freshly translated bound is
// always satisfiable in the abstract; boundaries only cross transiently
// inside a failing combination.
type Bound struct {
	Lower Range
	Upper Range
}

// String renders the bound in interval notation. The open-ended sentinel
// prints as an empty boundary, matching the usual "[1.0.0, ]" reading.
func (b Bound) String() string {
	lo, hi := "(", ")"
	if b.Lower.Inclusive {
		lo = "["
	}
	if b.Upper.Inclusive {
		hi = "]"
	}
	upper := ""
	if !b.Upper.Version.Equal(maxVersion) {
		upper = b.Upper.Version.String()
	}
	return fmt.Sprintf("%s%s, %s%s", lo, b.Lower.Version.String(), upper, hi)
}

// Translate converts a parsed requirement into a single bound by translating
// each comparator and intersecting the results. A requirement with zero
// comparators yields EmptyConstraintError; comparators that individually
// translate but mutually exclude each other yield NonOverlappingBoundsError.
func Translate(req constraint.Requirement) (Bound, error) {
	if len(req.Comparators) == 0 {
		return Bound{}, &EmptyConstraintError{Requirement: req.Text}
	}

	acc, err := translateComparator(req.Comparators[0])
	if err != nil {
		return Bound{}, fmt.Errorf("requirement %q: %w", req.Text, err)
	}
	for _, c := range req.Comparators[1:] {
		b, err := translateComparator(c)
		if err != nil {
			return Bound{}, fmt.Errorf("requirement %q: %w", req.Text, err)
		}
		acc, err = Intersect(acc, b)
		if err != nil {
			return Bound{}, &NonOverlappingBoundsError{Requirement: req.Text}
		}
	}
	return acc, nil
}

// Intersect returns the interval admitted by both bounds, taking the
// tighter boundary on each side. Bounds that share no version yield
// DisjointBoundsError. Combine is the attribution-tracking equivalent
// for folding dependents.
func Intersect(a, b Bound) (Bound, error) {
	out := a
	if tightenAsLower(out.Lower, b.Lower) == pickSecond {
		out.Lower = b.Lower
	}
	if tightenAsUpper(out.Upper, b.Upper) == pickSecond {
		out.Upper = b.Upper
	}
	if out.empty() {
		return Bound{}, &DisjointBoundsError{A: a, B: b}
	}
	return out, nil
}

// translateComparator maps one comparator onto its interval. Omitted minor
// and patch components default to zero. A pre-release tag rides along on the
// seeded boundary; build metadata does not, and bumped upper boundaries are
// always plain releases.
func translateComparator(c constraint.Comparator) (Bound, error) {
	var minor, patch uint64
	if c.Minor != nil {
		minor = *c.Minor
	}
	if c.Patch != nil {
		patch = *c.Patch
	}
	v := semver.New(c.Major, minor, patch, c.Pre, "")

	switch c.Op {
	case constraint.OpCaret:
		return Bound{
			Lower: Range{Version: v, Inclusive: true},
			Upper: Range{Version: semver.New(c.Major+1, 0, 0, "", ""), Inclusive: false},
		}, nil
	case constraint.OpTilde:
		return Bound{
			Lower: Range{Version: v, Inclusive: true},
			Upper: Range{Version: semver.New(c.Major, minor+1, 0, "", ""), Inclusive: false},
		}, nil
	case constraint.OpExact:
		return Bound{
			Lower: Range{Version: v, Inclusive: true},
			Upper: Range{Version: v, Inclusive: true},
		}, nil
	case constraint.OpGreater:
		return Bound{
			Lower: Range{Version: v, Inclusive: false},
			Upper: Range{Version: maxVersion, Inclusive: true},
		}, nil
	case constraint.OpGreaterEq:
		return Bound{
			Lower: Range{Version: v, Inclusive: true},
			Upper: Range{Version: maxVersion, Inclusive: true},
		}, nil
	case constraint.OpLess:
		return Bound{
			Lower: Range{Version: minVersion, Inclusive: true},
			Upper: Range{Version: v, Inclusive: false},
		}, nil
	case constraint.OpLessEq:
		return Bound{
			Lower: Range{Version: minVersion, Inclusive: true},
			Upper: Range{Version: v, Inclusive: true},
		}, nil
	case constraint.OpWildcard:
		return Bound{
			Lower: Range{Version: minVersion, Inclusive: true},
			Upper: Range{Version: maxVersion, Inclusive: true},
		}, nil
	default:
		return Bound{}, &UnsupportedOperatorError{Op: c.Op.String()}
	}
}
