package output

import (
	"encoding/json"
	"io"
	"time"
)

// JSON output types matching the schema contract

// CompatOutput represents the JSON output for the compat command
type CompatOutput struct {
	SchemaVersion string         `json:"schemaVersion"`
	Crate         string         `json:"crate"`
	Range         string         `json:"range"`
	Versions      []CrateVersion `json:"versions"`
	TotalMatching int            `json:"totalMatching"`
	ElapsedMs     int64          `json:"elapsedMs"`
}

// VersionListOutput represents the JSON output for the versions command
type VersionListOutput struct {
	SchemaVersion string         `json:"schemaVersion"`
	Crate         string         `json:"crate"`
	Versions      []CrateVersion `json:"versions"`
	ElapsedMs     int64          `json:"elapsedMs"`
}

// CrateVersion is one published release in JSON output
type CrateVersion struct {
	Num         string `json:"num"`
	RustVersion string `json:"rustVersion,omitempty"`
	Yanked      bool   `json:"yanked,omitempty"`
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// NewCompatOutput creates a CompatOutput with schema version and elapsed time;
// the caller fills Versions and TotalMatching
func NewCompatOutput(crate, boundRange string, start time.Time) *CompatOutput {
	return &CompatOutput{
		SchemaVersion: CurrentSchemaVersion,
		Crate:         crate,
		Range:         boundRange,
		Versions:      []CrateVersion{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewVersionListOutput creates a VersionListOutput with schema version and
// elapsed time; the caller fills Versions
func NewVersionListOutput(crate string, start time.Time) *VersionListOutput {
	return &VersionListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Crate:         crate,
		Versions:      []CrateVersion{},
		ElapsedMs:     MeasureElapsed(start),
	}
}
