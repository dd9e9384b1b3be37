package dataset

import (
	"fmt"
	"strings"
)

// Role tags a detection as belonging to a problem SKU or a reference SKU.
type Role string

const (
	RoleProblem   Role = "problem"
	RoleReference Role = "reference"
)

// ParseRole normalizes a raw Prob/Ref value. Matching is trimmed and
// case-insensitive; anything other than the two known values is rejected.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleProblem):
		return RoleProblem, true
	case string(RoleReference):
		return RoleReference, true
	}
	return "", false
}

// Detection is one bounding-box measurement from the input export.
// Area is always positive once a Detection exists.
type Detection struct {
	ImageID  string
	Category string
	Group    string
	Class    string
	Area     float64
	Role     Role
}

// RawRow preserves a loaded row before area validation, including the
// original Area text. Rows with invalid roles are not retained at all;
// rows with unparsable or non-positive areas are retained here so the
// raw sheet shows them while the working set does not.
type RawRow struct {
	ImageID  string
	Category string
	Group    string
	Class    string
	AreaText string
	Area     float64
	AreaOK   bool
	Role     Role
}

// Counters tracks what the loader kept and discarded.
type Counters struct {
	RowsRead      int
	InvalidRole   int
	InvalidArea   int
	Categories    int
	Images        int
	ProblemRows   int
	ReferenceRows int
}

// Table is the validated working set for one pipeline run.
type Table struct {
	Source     string
	RawRows    []RawRow
	Detections []Detection
	Counters   Counters
}

// SchemaError reports required columns missing from the input header.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}
