package bound

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Locate maps a combined bound onto a crate's published versions, which must
// be sorted ascending by precedence. It returns the index window [low, high]
// of the versions inside the bound; the window is never inverted. When the
// bound contains no published version the failure is attributed through the
// boundary owners: one owner yields SingleUnsatisfiableError, two yield
// PairwiseUnsatisfiableError.
func Locate(crate string, deps []Dependent, c Combined, versions []*semver.Version) (low, high int, err error) {
	low = searchLow(c.Bound.Lower, versions)
	high = searchHigh(c.Bound.Upper, versions)

	if low > high {
		if c.LowerOwner == c.UpperOwner {
			return 0, 0, &SingleUnsatisfiableError{
				Crate:     crate,
				Dependent: deps[c.LowerOwner],
			}
		}
		return 0, 0, &PairwiseUnsatisfiableError{
			Crate:          crate,
			LowerDependent: deps[c.LowerOwner],
			UpperDependent: deps[c.UpperOwner],
		}
	}
	return low, high, nil
}

// searchLow finds the first index admitted by the lower boundary. An exact
// hit keeps its index when inclusive and steps past itself when exclusive; a
// miss lands on the insertion point, the first version above the boundary.
func searchLow(r Range, versions []*semver.Version) int {
	idx := sort.Search(len(versions), func(i int) bool {
		return versions[i].Compare(r.Version) >= 0
	})
	if idx < len(versions) && versions[idx].Equal(r.Version) && !r.Inclusive {
		return idx + 1
	}
	return idx
}

// searchHigh finds the last index admitted by the upper boundary. An exact
// hit keeps its index when inclusive and steps before itself when exclusive;
// a miss lands one before the insertion point. The result goes negative when
// every version lies above the boundary.
func searchHigh(r Range, versions []*semver.Version) int {
	idx := sort.Search(len(versions), func(i int) bool {
		return versions[i].Compare(r.Version) >= 0
	})
	if idx < len(versions) && versions[idx].Equal(r.Version) {
		if r.Inclusive {
			return idx
		}
		return idx - 1
	}
	return idx - 1
}
