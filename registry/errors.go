package registry

import "fmt"

// CrateNotFoundError indicates the registry has no crate by that name.
type CrateNotFoundError struct {
	Crate    string
	Registry string
}

func (e *CrateNotFoundError) Error() string {
	return fmt.Sprintf("crate %s not found on %s", e.Crate, e.Registry)
}

// VersionNotFoundError indicates the registry has no such release of the
// crate. The dependencies endpoint cannot tell a missing crate from a
// missing version, so this covers both for that endpoint.
type VersionNotFoundError struct {
	Crate    string
	Version  string
	Registry string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s of crate %s not found on %s", e.Version, e.Crate, e.Registry)
}

// StatusError reports an unexpected registry response status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned status %d for %s", e.StatusCode, e.URL)
}
