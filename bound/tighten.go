package bound

// pick is the outcome of probing two ranges for the same boundary role.
type pick int

const (
	pickNeither pick = iota // same version, same inclusivity
	pickFirst               // the first range bounds tighter
	pickSecond              // the second range bounds tighter
)

// tightenAsLower compares a and b as candidate lower boundaries and reports
// which admits less. The higher version wins; on equal versions the
// exclusive boundary wins.
func tightenAsLower(a, b Range) pick {
	cmp := a.Version.Compare(b.Version)
	switch {
	case cmp < 0:
		return pickSecond
	case cmp > 0:
		return pickFirst
	case a.Inclusive && !b.Inclusive:
		return pickSecond
	case !a.Inclusive && b.Inclusive:
		return pickFirst
	}
	return pickNeither
}

// tightenAsUpper compares a and b as candidate upper boundaries. Here the
// lower version wins; on equal versions the exclusive boundary again wins.
func tightenAsUpper(a, b Range) pick {
	cmp := a.Version.Compare(b.Version)
	switch {
	case cmp < 0:
		return pickFirst
	case cmp > 0:
		return pickSecond
	case a.Inclusive && !b.Inclusive:
		return pickSecond
	case !a.Inclusive && b.Inclusive:
		return pickFirst
	}
	return pickNeither
}

// empty reports whether no version can lie between the boundaries. Crossed
// boundaries always read empty; boundaries meeting at one version admit it
// only when both are inclusive.
func (b Bound) empty() bool {
	cmp := b.Lower.Version.Compare(b.Upper.Version)
	if cmp != 0 {
		return cmp > 0
	}
	return !b.Lower.Inclusive || !b.Upper.Inclusive
}
