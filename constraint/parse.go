package constraint

import (
	"fmt"
	"strconv"
	"strings"
)

// Longest tokens first so ">=" is not read as ">" followed by "=1...".
var operators = []struct {
	token string
	op    Op
}{
	{">=", OpGreaterEq},
	{"<=", OpLessEq},
	{"!=", OpNotEqual},
	{">", OpGreater},
	{"<", OpLess},
	{"^", OpCaret},
	{"~", OpTilde},
	{"=", OpExact},
}

// Parse parses a version requirement string.
//
// Examples:
//
//	Parse("^1.2.3")        // caret
//	Parse("1.2")           // bare version, same as ^1.2
//	Parse(">=1.0, <2.5")   // conjunction
//	Parse("1.*")           // wildcard
//
// A blank requirement parses to zero comparators rather than an error, so
// that consumers can attribute the problem to whoever declared it.
func Parse(s string) (Requirement, error) {
	req := Requirement{Text: s}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return req, nil
	}

	for _, tok := range strings.Split(trimmed, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return Requirement{}, fmt.Errorf("requirement %q: empty comparator", s)
		}
		c, err := parseComparator(tok)
		if err != nil {
			return Requirement{}, fmt.Errorf("requirement %q: %w", s, err)
		}
		req.Comparators = append(req.Comparators, c)
	}
	return req, nil
}

// MustParse parses a requirement and panics on error. Use only with
// requirement strings known to be valid.
func MustParse(s string) Requirement {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseComparator(tok string) (Comparator, error) {
	c := Comparator{Op: OpCaret}
	explicit := false
	for _, cand := range operators {
		if strings.HasPrefix(tok, cand.token) {
			c.Op = cand.op
			tok = strings.TrimSpace(tok[len(cand.token):])
			explicit = true
			break
		}
	}
	if tok == "" {
		return Comparator{}, fmt.Errorf("operator with no version")
	}

	rest := tok
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		c.Metadata = rest[i+1:]
		rest = rest[:i]
		if c.Metadata == "" {
			return Comparator{}, fmt.Errorf("%q: empty build metadata", tok)
		}
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		c.Pre = rest[i+1:]
		rest = rest[:i]
		if c.Pre == "" {
			return Comparator{}, fmt.Errorf("%q: empty pre-release", tok)
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 3 {
		return Comparator{}, fmt.Errorf("%q: too many version components", tok)
	}
	for i, part := range parts {
		if isWildcard(part) {
			if explicit {
				return Comparator{}, fmt.Errorf("%q: wildcard cannot follow an operator", tok)
			}
			if i != len(parts)-1 {
				return Comparator{}, fmt.Errorf("%q: version components after wildcard", tok)
			}
			if c.Pre != "" || c.Metadata != "" {
				return Comparator{}, fmt.Errorf("%q: wildcard cannot carry pre-release or metadata", tok)
			}
			c.Op = OpWildcard
			return c, nil
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Comparator{}, fmt.Errorf("%q: invalid version component %q", tok, part)
		}
		switch i {
		case 0:
			c.Major = n
		case 1:
			c.Minor = &n
		case 2:
			c.Patch = &n
		}
	}
	if c.Pre != "" && c.Patch == nil {
		return Comparator{}, fmt.Errorf("%q: pre-release requires major.minor.patch", tok)
	}
	return c, nil
}

func isWildcard(part string) bool {
	return part == "*" || part == "x" || part == "X"
}
