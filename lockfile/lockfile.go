// Package lockfile reads Cargo.lock dependency snapshots.
package lockfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Package is one resolved package entry in the snapshot.
type Package struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

// Lockfile is a parsed Cargo.lock snapshot.
type Lockfile struct {
	Version  int       `toml:"version,omitempty"`
	Packages []Package `toml:"package"`
}

// Dependent is a package that declares a dependency on some target crate.
type Dependent struct {
	Name    string
	Version string
}

// Load reads and parses the snapshot at path.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lockfile: %w", err)
	}
	lf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse lockfile %s: %w", path, err)
	}
	return lf, nil
}

// Parse parses raw lockfile TOML.
func Parse(data []byte) (*Lockfile, error) {
	var lf Lockfile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

// DependentsOf returns every package whose dependency list names crate, in
// snapshot order. Dependency entries may carry a disambiguating version and
// source suffix ("log 0.4.20 (registry+...)"); only the leading name counts.
func (lf *Lockfile) DependentsOf(crate string) []Dependent {
	var deps []Dependent
	for _, pkg := range lf.Packages {
		for _, d := range pkg.Dependencies {
			if dependencyName(d) == crate {
				deps = append(deps, Dependent{Name: pkg.Name, Version: pkg.Version})
				break
			}
		}
	}
	return deps
}

func dependencyName(entry string) string {
	if i := strings.IndexByte(entry, ' '); i >= 0 {
		return entry[:i]
	}
	return entry
}
