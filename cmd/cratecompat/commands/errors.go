package commands

import (
	"errors"
	"os"

	"github.com/cratecompat/cratecompat/compat"
	"github.com/cratecompat/cratecompat/registry"
)

// ErrorHint returns a follow-up suggestion for known failure shapes, or
// an empty string when there is nothing useful to add. main prints it
// under the error line.
func ErrorHint(err error) string {
	var onlyYanked *compat.OnlyYankedMatchesError
	if errors.As(err, &onlyYanked) {
		return "rerun with --include-yanked to list them"
	}

	var noDependent *compat.NoMatchingDependentError
	if errors.As(err, &noDependent) {
		return "check the crate name against the [[package]] entries in the lockfile"
	}

	var invalidRust *compat.InvalidMaxRustVersionError
	if errors.As(err, &invalidRust) {
		return `--max-rust-version expects a Rust release number such as "1.70"`
	}

	var unsatisfiableRust *compat.UnsatisfiableMaxRustVersionError
	if errors.As(err, &unsatisfiableRust) {
		return "raise or drop --max-rust-version to see the otherwise compatible versions"
	}

	var crateNotFound *registry.CrateNotFoundError
	if errors.As(err, &crateNotFound) {
		return "crate names on crates.io are exact, including hyphens and underscores"
	}

	if errors.Is(err, os.ErrNotExist) {
		return "pass --path if the Cargo.lock lives somewhere else"
	}

	return ""
}
