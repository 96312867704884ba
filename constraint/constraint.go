// Package constraint parses cargo-style version requirements into their
// comparator terms.
//
// A requirement is a comma-separated conjunction of comparators. Each
// comparator is an operator applied to a possibly partial version:
//
//	^1.2.3           - caret: compatible within the same major
//	~1.2             - tilde: compatible within the same minor
//	=1.0.0           - exact
//	>=1.0, <2.5      - conjunction of plain comparisons
//	1.*              - wildcard
//	1.2.3            - bare version, shorthand for ^1.2.3
//
// The package only tokenizes; deciding what a comparator admits is left to
// its consumers.
package constraint

// Op identifies a comparator operator.
type Op int

const (
	// OpCaret allows updates that keep the leftmost component fixed.
	// A bare version with no operator is shorthand for caret.
	OpCaret Op = iota
	// OpTilde allows patch-level updates only.
	OpTilde
	// OpExact matches a single version.
	OpExact
	// OpGreater matches versions strictly above the operand.
	OpGreater
	// OpGreaterEq matches the operand and everything above it.
	OpGreaterEq
	// OpLess matches versions strictly below the operand.
	OpLess
	// OpLessEq matches the operand and everything below it.
	OpLessEq
	// OpWildcard matches any version: *, 1.*, 1.2.*.
	OpWildcard
	// OpNotEqual excludes a single version. The grammar accepts it; interval
	// consumers reject it because a punctured range has no single pair of
	// boundaries.
	OpNotEqual
)

// String returns the operator token as it appears in requirement strings.
func (op Op) String() string {
	switch op {
	case OpCaret:
		return "^"
	case OpTilde:
		return "~"
	case OpExact:
		return "="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpWildcard:
		return "*"
	case OpNotEqual:
		return "!="
	default:
		return "?"
	}
}

// Comparator is a single parsed requirement term. Minor and Patch are nil
// when the term omitted them ("~1", ">=1.2"); omitted components default to
// zero when the comparator is turned into concrete versions.
type Comparator struct {
	Op       Op
	Major    uint64
	Minor    *uint64
	Patch    *uint64
	Pre      string
	Metadata string
}

// Requirement is a parsed requirement: the comparator conjunction plus the
// text it was parsed from. A requirement with zero comparators is
// syntactically valid (the empty string parses to one); whether that is
// acceptable is the consumer's call.
type Requirement struct {
	Comparators []Comparator
	Text        string
}

// String returns the original requirement text.
func (r Requirement) String() string {
	return r.Text
}
