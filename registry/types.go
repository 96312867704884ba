package registry

import "github.com/Masterminds/semver/v3"

// Dependency is one row of the crate version dependencies endpoint. Req
// carries the requirement string exactly as the dependent published it.
type Dependency struct {
	CrateID  string `json:"crate_id"`
	Req      string `json:"req"`
	Kind     string `json:"kind"` // normal, build, or dev
	Optional bool   `json:"optional"`
}

type dependenciesResponse struct {
	Dependencies []Dependency `json:"dependencies"`
}

// VersionInfo is one row of the crate metadata endpoint's versions array.
type VersionInfo struct {
	Num         string `json:"num"`
	Yanked      bool   `json:"yanked"`
	RustVersion string `json:"rust_version"` // empty when the crate declares no MSRV
}

type crateResponse struct {
	Versions []VersionInfo `json:"versions"`
}

// PublishedVersion is a release of a crate with its registry metadata
// parsed for comparison.
type PublishedVersion struct {
	Version     *semver.Version
	Num         string
	Yanked      bool
	RustVersion string
}
