package bound

import (
	"errors"
	"math"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/cratecompat/cratecompat/constraint"
)

var (
	testMin = semver.New(0, 0, 0, "", "")
	testMax = semver.New(math.MaxUint64, math.MaxUint64, math.MaxUint64, "", "")
)

func translate(t *testing.T, req string) Bound {
	t.Helper()
	b, err := Translate(constraint.MustParse(req))
	if err != nil {
		t.Fatalf("Translate(%q) error: %v", req, err)
	}
	return b
}

func checkBound(t *testing.T, got Bound, lower *semver.Version, loIncl bool, upper *semver.Version, upIncl bool) {
	t.Helper()
	if !got.Lower.Version.Equal(lower) || got.Lower.Inclusive != loIncl {
		t.Errorf("lower = %s (inclusive=%v), want %s (inclusive=%v)",
			got.Lower.Version, got.Lower.Inclusive, lower, loIncl)
	}
	if !got.Upper.Version.Equal(upper) || got.Upper.Inclusive != upIncl {
		t.Errorf("upper = %s (inclusive=%v), want %s (inclusive=%v)",
			got.Upper.Version, got.Upper.Inclusive, upper, upIncl)
	}
}

func TestTranslateOperators(t *testing.T) {
	v := semver.MustParse

	tests := []struct {
		name   string
		req    string
		lower  *semver.Version
		loIncl bool
		upper  *semver.Version
		upIncl bool
	}{
		{"caret", "^1.2.3", v("1.2.3"), true, v("2.0.0"), false},
		{"caret zero major", "^0.2.3", v("0.2.3"), true, v("1.0.0"), false},
		{"bare version is caret", "1.2.3", v("1.2.3"), true, v("2.0.0"), false},
		{"caret partial minor", "^1.2", v("1.2.0"), true, v("2.0.0"), false},
		{"caret major only", "^1", v("1.0.0"), true, v("2.0.0"), false},
		{"tilde", "~1.2.3", v("1.2.3"), true, v("1.3.0"), false},
		{"tilde partial minor", "~1.2", v("1.2.0"), true, v("1.3.0"), false},
		{"tilde major only", "~1", v("1.0.0"), true, v("1.1.0"), false},
		{"exact", "=1.2.3", v("1.2.3"), true, v("1.2.3"), true},
		{"greater", ">1.0.0", v("1.0.0"), false, testMax, true},
		{"greater or equal", ">=1.0.0", v("1.0.0"), true, testMax, true},
		{"less", "<2.0.0", testMin, true, v("2.0.0"), false},
		{"less or equal", "<=2.0.0", testMin, true, v("2.0.0"), true},
		{"bare wildcard", "*", testMin, true, testMax, true},
		{"positional wildcard", "1.*", testMin, true, testMax, true},
		{"prerelease rides the lower boundary", "^1.2.3-alpha.1", v("1.2.3-alpha.1"), true, v("2.0.0"), false},
		{"bumped upper stays a plain release", "~2.3.4-beta", v("2.3.4-beta"), true, v("2.4.0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkBound(t, translate(t, tt.req), tt.lower, tt.loIncl, tt.upper, tt.upIncl)
		})
	}
}

func TestTranslateConjunction(t *testing.T) {
	got := translate(t, ">=1.0.100, <1.0.200")
	checkBound(t, got, semver.MustParse("1.0.100"), true, semver.MustParse("1.0.200"), false)
}

func TestTranslateConjunctionTightensBothSides(t *testing.T) {
	got := translate(t, ">=1.0.0, >1.2.0, <2.0.0, <=1.9.0")
	checkBound(t, got, semver.MustParse("1.2.0"), false, semver.MustParse("1.9.0"), true)
}

func TestTranslateConjunctionPointInterval(t *testing.T) {
	got := translate(t, ">=1.0.0, <=1.0.0")
	checkBound(t, got, semver.MustParse("1.0.0"), true, semver.MustParse("1.0.0"), true)
}

func TestIntersect(t *testing.T) {
	got, err := Intersect(translate(t, "^1.0"), translate(t, ">=1.2.0"))
	if err != nil {
		t.Fatalf("Intersect error: %v", err)
	}
	checkBound(t, got, semver.MustParse("1.2.0"), true, semver.MustParse("2.0.0"), false)
}

func TestIntersectIdempotent(t *testing.T) {
	for _, req := range []string{"^1.2.3", "~1.2", "=1.0.0", ">1.0.0", "<=2.0.0", "*"} {
		t.Run(req, func(t *testing.T) {
			b := translate(t, req)
			got, err := Intersect(b, b)
			if err != nil {
				t.Fatalf("Intersect error: %v", err)
			}
			checkBound(t, got, b.Lower.Version, b.Lower.Inclusive, b.Upper.Version, b.Upper.Inclusive)
		})
	}
}

func TestIntersectCommutative(t *testing.T) {
	a := translate(t, "^1.0")
	b := translate(t, "~1.3")
	ab, err := Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect error: %v", err)
	}
	ba, err := Intersect(b, a)
	if err != nil {
		t.Fatalf("Intersect error: %v", err)
	}
	checkBound(t, ba, ab.Lower.Version, ab.Lower.Inclusive, ab.Upper.Version, ab.Upper.Inclusive)
}

func TestIntersectDisjoint(t *testing.T) {
	_, err := Intersect(translate(t, ">=2.0.0"), translate(t, "<1.0.0"))
	var disjoint *DisjointBoundsError
	if !errors.As(err, &disjoint) {
		t.Fatalf("Intersect error = %v, want DisjointBoundsError", err)
	}
}

func TestTranslateEmptyConstraint(t *testing.T) {
	_, err := Translate(constraint.Requirement{Text: ""})
	var empty *EmptyConstraintError
	if !errors.As(err, &empty) {
		t.Fatalf("Translate() error = %v, want EmptyConstraintError", err)
	}
}

func TestTranslateNonOverlapping(t *testing.T) {
	tests := []struct {
		name string
		req  string
	}{
		{"disjoint sides", ">=2.0.0, <1.0.0"},
		{"self-contradictory exclusives", ">1.0.0, <1.0.0"},
		{"exclusive lower shuts the meeting point", ">1.0.0, <=1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(constraint.MustParse(tt.req))
			var nonOverlap *NonOverlappingBoundsError
			if !errors.As(err, &nonOverlap) {
				t.Fatalf("Translate(%q) error = %v, want NonOverlappingBoundsError", tt.req, err)
			}
			if nonOverlap.Requirement != tt.req {
				t.Errorf("Requirement = %q, want %q", nonOverlap.Requirement, tt.req)
			}
		})
	}
}

func TestTranslateUnsupportedOperator(t *testing.T) {
	_, err := Translate(constraint.MustParse("!=1.0.0"))
	var unsupported *UnsupportedOperatorError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Translate() error = %v, want UnsupportedOperatorError", err)
	}
	if unsupported.Op != "!=" {
		t.Errorf("Op = %q, want %q", unsupported.Op, "!=")
	}
}

func TestBoundString(t *testing.T) {
	tests := []struct {
		req  string
		want string
	}{
		{"^1.2.3", "[1.2.3, 2.0.0)"},
		{"=1.0.0", "[1.0.0, 1.0.0]"},
		{">1.0.0", "(1.0.0, ]"},
		{"<2.0.0", "[0.0.0, 2.0.0)"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.req).String(); got != tt.want {
			t.Errorf("Bound for %q renders %q, want %q", tt.req, got, tt.want)
		}
	}
}
