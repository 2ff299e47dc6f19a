package dataset

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind restricts the semantics a Loader accepts.
type Kind string

// KindGrid is the only supported kind.
const KindGrid Kind = "grid"

// Role is the semantic category of a mapped column.
type Role string

const (
	// RolePosition marks the coordinate column. Exactly one is required.
	RolePosition Role = "position"

	// RoleCell marks a per-cell scalar attribute.
	RoleCell Role = "cell"

	// RoleFace marks a per-face attribute.
	RoleFace Role = "face"
)

// Roles lists every valid role.
var Roles = []Role{RolePosition, RoleCell, RoleFace}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RolePosition, RoleCell, RoleFace:
		return true
	default:
		return false
	}
}

// ColumnRole assigns a role to one column.
type ColumnRole struct {
	Column string `json:"column"`
	Role   Role   `json:"role"`
}

// RoleMapping is an ordered list of column role assignments.
// Validation walks it in order, so the first offending entry is reported.
type RoleMapping []ColumnRole

// ColumnsWithRole returns the columns assigned role, in mapping order.
func (m RoleMapping) ColumnsWithRole(role Role) []string {
	var columns []string
	for _, cr := range m {
		if cr.Role == role {
			columns = append(columns, cr.Column)
		}
	}
	return columns
}

// PositionColumn returns the column mapped to RolePosition.
// ok is false unless exactly one such column exists.
func (m RoleMapping) PositionColumn() (column string, ok bool) {
	positions := m.ColumnsWithRole(RolePosition)
	if len(positions) != 1 {
		return "", false
	}
	return positions[0], true
}

// Validate checks the mapping against a table's column names.
//
// Each entry is checked in order: the column must exist, the role must be
// valid, and the column must not already be mapped. After that, exactly one
// entry must carry RolePosition. Column names are compared in Unicode NFC
// form.
func (m RoleMapping) Validate(columns []string) error {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[norm.NFC.String(c)] = true
	}

	mapped := make(map[string]bool, len(m))
	positions := 0
	for _, cr := range m {
		key := norm.NFC.String(cr.Column)
		if !known[key] {
			return newUnknownColumnError(cr.Column)
		}
		if !cr.Role.Valid() {
			return newInvalidRoleError(cr.Column, cr.Role)
		}
		if mapped[key] {
			return newInvalidMappingError(fmt.Sprintf("column %q is mapped more than once", cr.Column))
		}
		mapped[key] = true

		if cr.Role == RolePosition {
			positions++
		}
	}

	if positions != 1 {
		return newInvalidMappingError(fmt.Sprintf(
			"exactly one column mapped to 'position' is required, found %d", positions))
	}
	return nil
}
