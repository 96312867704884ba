// Package compat orchestrates a compatibility run: read the dependents
// of a crate from a lockfile, fetch the requirement each dependent
// published for it, intersect the resulting bounds, and map the combined
// bound onto the crate's published release list.
package compat

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/cratecompat/cratecompat/bound"
	"github.com/cratecompat/cratecompat/constraint"
	"github.com/cratecompat/cratecompat/lockfile"
	"github.com/cratecompat/cratecompat/observability"
	"github.com/cratecompat/cratecompat/registry"
)

// Provider supplies registry data for a run. *registry.CachingProvider
// is the production implementation.
type Provider interface {
	Dependencies(ctx context.Context, crate, version string) ([]registry.Dependency, error)
	PublishedVersions(ctx context.Context, crate string) ([]registry.PublishedVersion, error)
}

// Options control filtering of the compatible version list.
type Options struct {
	// IncludeYanked keeps yanked releases in the result.
	IncludeYanked bool

	// MaxRustVersion drops releases whose declared MSRV exceeds this
	// Rust version. Empty disables the filter.
	MaxRustVersion string

	// Count caps how many of the newest compatible versions are
	// reported. Zero or negative reports all of them.
	Count int
}

// CompatibleVersion is one release that satisfies every dependent.
type CompatibleVersion struct {
	Num         string `json:"num"`
	RustVersion string `json:"rust_version,omitempty"`
	Yanked      bool   `json:"yanked,omitempty"`
}

// ReportDependent is a dependent's requirement as it entered the
// combination.
type ReportDependent struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Requirement string `json:"req"`
}

// Report is the outcome of a compatibility run for one crate.
type Report struct {
	Crate         string            `json:"crate"`
	Dependents    []ReportDependent `json:"dependents"`
	CombinedBound string            `json:"combined_bound"`

	// Versions holds the compatible releases, newest first, after the
	// yanked, MSRV, and count filters.
	Versions []CompatibleVersion `json:"versions"`

	// TotalMatching counts the releases inside the bound after the
	// yanked and MSRV filters but before the count cap.
	TotalMatching int `json:"total_matching"`
}

// Finder runs compatibility queries against a registry provider.
type Finder struct {
	provider Provider
	logger   observability.Logger
}

// NewFinder creates a Finder. A nil logger discards all output.
func NewFinder(provider Provider, logger observability.Logger) *Finder {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Finder{provider: provider, logger: logger}
}

// Find computes which published versions of crate satisfy every
// dependent recorded in the lockfile.
func (f *Finder) Find(ctx context.Context, lf *lockfile.Lockfile, crate string, opts Options) (*Report, error) {
	dependents := lf.DependentsOf(crate)

	ctx, span := observability.StartCompatSpan(ctx, crate, len(dependents))
	defer span.End()

	fail := func(err error) (*Report, error) {
		observability.EndSpanWithError(span, err)
		return nil, err
	}

	if len(dependents) == 0 {
		return fail(&NoMatchingDependentError{Crate: crate})
	}

	// Validate the MSRV limit before spending any network requests.
	admitsRust, err := f.maxRustFilter(ctx, crate, opts.MaxRustVersion)
	if err != nil {
		return fail(err)
	}

	f.logger.InfoContext(ctx, "Found {Count} dependents of {Crate} in the lockfile", len(dependents), crate)

	deps := make([]bound.Dependent, 0, len(dependents))
	for _, dep := range dependents {
		b, reqText, err := f.dependentBound(ctx, crate, dep)
		if err != nil {
			return fail(err)
		}
		deps = append(deps, bound.Dependent{
			Name:        dep.Name,
			Version:     dep.Version,
			Requirement: reqText,
			Bound:       b,
		})
	}

	combined, err := bound.Combine(crate, deps)
	if err != nil {
		return fail(err)
	}
	f.logger.DebugContext(ctx, "Combined bound for {Crate}: {Bound}", crate, combined.Bound.String())

	published, err := f.provider.PublishedVersions(ctx, crate)
	if err != nil {
		return fail(err)
	}

	versions := make([]*semver.Version, len(published))
	for i, pv := range published {
		versions[i] = pv.Version
	}

	low, high, err := bound.Locate(crate, deps, combined, versions)
	if err != nil {
		return fail(err)
	}
	window := published[low : high+1]

	matches := window
	if !opts.IncludeYanked {
		matches = slices.DeleteFunc(slices.Clone(matches), func(pv registry.PublishedVersion) bool {
			return pv.Yanked
		})
		if len(matches) == 0 {
			return fail(&OnlyYankedMatchesError{Crate: crate, Bound: combined.Bound.String()})
		}
	}

	if opts.MaxRustVersion != "" {
		matches = slices.DeleteFunc(slices.Clone(matches), func(pv registry.PublishedVersion) bool {
			return !admitsRust(pv)
		})
		if len(matches) == 0 {
			return fail(&UnsatisfiableMaxRustVersionError{Crate: crate, MaxRustVersion: opts.MaxRustVersion})
		}
	}

	// Matches are ascending; the report lists newest first.
	compatible := make([]CompatibleVersion, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		compatible = append(compatible, CompatibleVersion{
			Num:         matches[i].Num,
			RustVersion: matches[i].RustVersion,
			Yanked:      matches[i].Yanked,
		})
	}
	total := len(compatible)
	if opts.Count > 0 && total > opts.Count {
		compatible = compatible[:opts.Count]
	}

	f.logger.InfoContext(ctx, "{Total} versions of {Crate} satisfy all {Dependents} dependents", total, crate, len(deps))

	reportDeps := make([]ReportDependent, len(deps))
	for i, d := range deps {
		reportDeps[i] = ReportDependent{Name: d.Name, Version: d.Version, Requirement: d.Requirement}
	}

	return &Report{
		Crate:         crate,
		Dependents:    reportDeps,
		CombinedBound: combined.Bound.String(),
		Versions:      compatible,
		TotalMatching: total,
	}, nil
}

// dependentBound fetches one dependent's dependency list and translates
// its requirement on crate into a bound.
func (f *Finder) dependentBound(ctx context.Context, crate string, dep lockfile.Dependent) (bound.Bound, string, error) {
	rows, err := f.provider.Dependencies(ctx, dep.Name, dep.Version)
	if err != nil {
		return bound.Bound{}, "", err
	}

	row, ok := findDependency(rows, crate)
	if !ok {
		return bound.Bound{}, "", &DependencyMismatchError{
			Crate:     crate,
			Dependent: dep.Name,
			Version:   dep.Version,
		}
	}

	req, err := constraint.Parse(row.Req)
	if err != nil {
		return bound.Bound{}, "", fmt.Errorf("dependent %s %s: %w", dep.Name, dep.Version, err)
	}
	b, err := bound.Translate(req)
	if err != nil {
		return bound.Bound{}, "", fmt.Errorf("dependent %s %s: %w", dep.Name, dep.Version, err)
	}

	f.logger.DebugContext(ctx, "{Dependent} {DependentVersion} requires {Crate} {Requirement}, bound {Bound}",
		dep.Name, dep.Version, crate, row.Req, b.String())
	return b, row.Req, nil
}

// findDependency picks the dependency row for crate. Lockfiles record
// normal and build dependencies, so those win over dev rows when a
// dependent lists the crate under several kinds.
func findDependency(rows []registry.Dependency, crate string) (registry.Dependency, bool) {
	fallback := -1
	for i, row := range rows {
		if row.CrateID != crate {
			continue
		}
		if row.Kind != "dev" {
			return row, true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return rows[fallback], true
	}
	return registry.Dependency{}, false
}

// maxRustFilter builds the MSRV predicate. Releases without a declared
// MSRV always pass; a release with an unparseable one passes with a
// warning rather than sinking the run.
func (f *Finder) maxRustFilter(ctx context.Context, crate, maxRust string) (func(registry.PublishedVersion) bool, error) {
	if maxRust == "" {
		return func(registry.PublishedVersion) bool { return true }, nil
	}

	limit, err := semver.NewVersion(maxRust)
	if err != nil {
		return nil, &InvalidMaxRustVersionError{Value: maxRust, Err: err}
	}

	return func(pv registry.PublishedVersion) bool {
		if pv.RustVersion == "" {
			return true
		}
		msrv, err := semver.NewVersion(pv.RustVersion)
		if err != nil {
			f.logger.WarnContext(ctx, "Ignoring unparseable rust_version {RustVersion} on {Crate} {Version}",
				pv.RustVersion, crate, pv.Num)
			return true
		}
		return msrv.Compare(limit) <= 0
	}, nil
}
