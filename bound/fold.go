package bound

import "fmt"

// Dependent is one package that depends on the target crate, carrying the
// bound its requirement translates to. Requirement keeps the original text
// for reporting.
type Dependent struct {
	Name        string
	Version     string
	Requirement string
	Bound       Bound
}

// Combined is the intersection of every dependent's bound together with the
// index of the dependent that last tightened each boundary.
type Combined struct {
	Bound      Bound
	LowerOwner int
	UpperOwner int
}

// Combine intersects the dependents' bounds left to right. The accumulator
// seeds from the first dependent, which initially owns both boundaries;
// every replacement of a boundary transfers ownership to the dependent that
// supplied it. The fold stops at the first dependent whose bound empties the
// intersection and attributes the conflict.
func Combine(crate string, deps []Dependent) (Combined, error) {
	if len(deps) == 0 {
		return Combined{}, fmt.Errorf("no dependents supplied for %s", crate)
	}

	acc := deps[0].Bound
	lowerOwner, upperOwner := 0, 0
	for i := 1; i < len(deps); i++ {
		nb := deps[i].Bound
		if tightenAsLower(acc.Lower, nb.Lower) == pickSecond {
			acc.Lower = nb.Lower
			lowerOwner = i
		}
		if tightenAsUpper(acc.Upper, nb.Upper) == pickSecond {
			acc.Upper = nb.Upper
			upperOwner = i
		}
		if acc.empty() {
			return Combined{}, conflictAt(crate, deps, i, lowerOwner, upperOwner)
		}
	}
	return Combined{Bound: acc, LowerOwner: lowerOwner, UpperOwner: upperOwner}, nil
}

// conflictAt attributes a fold failure caused by dependent i. Earlier
// dependents whose own bound is disjoint from dependent i's bound are
// collected; exactly one such dependent makes the conflict pairwise between
// the two surviving boundary owners, a larger set reports dependent i
// against all of them.
func conflictAt(crate string, deps []Dependent, i, lowerOwner, upperOwner int) error {
	nb := deps[i].Bound
	var conflicting []Dependent
	for j := 0; j < i; j++ {
		prev := deps[j].Bound
		disjointAbove := Bound{Lower: prev.Lower, Upper: nb.Upper}.empty()
		disjointBelow := Bound{Lower: nb.Lower, Upper: prev.Upper}.empty()
		if disjointAbove || disjointBelow {
			conflicting = append(conflicting, deps[j])
		}
	}
	if len(conflicting) == 1 {
		return &PairwiseUnsatisfiableError{
			Crate:          crate,
			LowerDependent: deps[lowerOwner],
			UpperDependent: deps[upperOwner],
		}
	}
	return &MultiUnsatisfiableError{
		Crate:       crate,
		Dependent:   deps[i],
		Conflicting: conflicting,
	}
}
