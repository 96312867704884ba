package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLock = `# This file is automatically @generated by Cargo.
# It is not intended for manual editing.
version = 4

[[package]]
name = "anyhow"
version = "1.0.75"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "a4668cab20f66d8d020e1fbc0ebe47217433c1b6c8f2040faf858554e394ace6"

[[package]]
name = "myapp"
version = "0.1.0"
dependencies = [
 "anyhow",
 "serde",
 "serde_json",
]

[[package]]
name = "serde"
version = "1.0.188"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "cf9e0fcba69a370eed61bcf2b728575f726b50b55cba78064753d708ddc7549e"
dependencies = [
 "serde_derive",
]

[[package]]
name = "serde_derive"
version = "1.0.188"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "4eca7ac642d82aa35b60049a6eccb4be6be75e599bd2e9adb5f875a737654af2"
dependencies = [
 "serde 1.0.188 (registry+https://github.com/rust-lang/crates.io-index)",
]

[[package]]
name = "serde_json"
version = "1.0.107"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "6b420ce6e3d8bd882e9b243c6eed35dbc9a6110c9769e74b584e0d68d1f20c65"
dependencies = [
 "serde",
]
`

func TestParse(t *testing.T) {
	lf, err := Parse([]byte(sampleLock))
	require.NoError(t, err)

	assert.Equal(t, 4, lf.Version)
	require.Len(t, lf.Packages, 5)
	assert.Equal(t, "anyhow", lf.Packages[0].Name)
	assert.Equal(t, "1.0.75", lf.Packages[0].Version)
	assert.Empty(t, lf.Packages[0].Dependencies)
	assert.Equal(t, []string{"anyhow", "serde", "serde_json"}, lf.Packages[1].Dependencies)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.lock")
	require.NoError(t, os.WriteFile(path, []byte(sampleLock), 0o644))

	lf, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, lf.Packages, 5)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "Cargo.lock"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("version = [[["))
	require.Error(t, err)
}

func TestDependentsOf(t *testing.T) {
	lf, err := Parse([]byte(sampleLock))
	require.NoError(t, err)

	tests := []struct {
		name  string
		crate string
		want  []Dependent
	}{
		{
			name:  "plain and suffixed entries both match",
			crate: "serde",
			want: []Dependent{
				{Name: "myapp", Version: "0.1.0"},
				{Name: "serde_derive", Version: "1.0.188"},
				{Name: "serde_json", Version: "1.0.107"},
			},
		},
		{
			name:  "single dependent",
			crate: "serde_derive",
			want:  []Dependent{{Name: "serde", Version: "1.0.188"}},
		},
		{
			name:  "crate present but nothing depends on it",
			crate: "myapp",
			want:  nil,
		},
		{
			name:  "crate absent from the snapshot",
			crate: "tokio",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lf.DependentsOf(tt.crate))
		})
	}
}

func TestDependencyNameIgnoresSuffix(t *testing.T) {
	lf := &Lockfile{Packages: []Package{
		{Name: "app", Version: "0.1.0", Dependencies: []string{"serde_json 1.0.107"}},
	}}
	got := lf.DependentsOf("serde_json")
	require.Len(t, got, 1)
	assert.Equal(t, "app", got[0].Name)

	// "serde" must not match the "serde_json 1.0.107" entry by prefix.
	assert.Empty(t, lf.DependentsOf("serde"))
}
