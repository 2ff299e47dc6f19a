package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gridset/internal/dataset"
)

// MappingError represents a failure to read a role mapping file.
type MappingError struct {
	Path    string
	Message string
	Err     error
}

func (e *MappingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// LoadRoleMapping reads a column role mapping from a file.
//
// .yaml, .yml and .json files hold a single mapping of column name to role;
// .cue files hold the same shape as top-level CUE fields:
//
//	pos:   "position"
//	val:   "cell"
//	face1: "face"
//
// Entries keep their file order. Roles are not checked here; the loader
// validates them against the table.
func LoadRoleMapping(path string) (dataset.RoleMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MappingError{Path: path, Message: "failed to read mapping file", Err: err}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return parseYAMLMapping(path, data)
	case ".cue":
		return parseCUEMapping(path, data)
	default:
		return nil, &MappingError{Path: path, Message: fmt.Sprintf("unsupported mapping file extension %q", ext)}
	}
}

// parseYAMLMapping decodes a YAML (or JSON) mapping node by node so that
// entry order survives.
func parseYAMLMapping(path string, data []byte) (dataset.RoleMapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MappingError{Path: path, Message: "failed to parse YAML", Err: err}
	}

	// Empty document: no mapping requested
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &MappingError{
			Path:    path,
			Message: fmt.Sprintf("line %d: role mapping must map column names to roles", root.Line),
		}
	}

	mapping := make(dataset.RoleMapping, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, &MappingError{
				Path:    path,
				Message: fmt.Sprintf("line %d: role for column %q must be a string", value.Line, key.Value),
			}
		}
		mapping = append(mapping, dataset.ColumnRole{
			Column: key.Value,
			Role:   dataset.Role(value.Value),
		})
	}

	return mapping, nil
}

// parseCUEMapping compiles a CUE file and reads its regular top-level
// fields in declaration order.
func parseCUEMapping(path string, data []byte) (dataset.RoleMapping, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &MappingError{Path: path, Message: "failed to compile CUE", Err: err}
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, &MappingError{Path: path, Message: "role mapping must be a CUE struct", Err: err}
	}

	var mapping dataset.RoleMapping
	for iter.Next() {
		column := iter.Selector().Unquoted()
		role, err := iter.Value().String()
		if err != nil {
			return nil, &MappingError{
				Path:    path,
				Message: fmt.Sprintf("role for column %q must be a concrete string", column),
				Err:     err,
			}
		}
		mapping = append(mapping, dataset.ColumnRole{Column: column, Role: dataset.Role(role)})
	}

	return mapping, nil
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeMapping     = "E004" // Role mapping file unreadable
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeReadFailed  = "E006" // CSV read failure
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeLedger      = "E008" // Ledger unavailable

	// Dataset load errors
	ErrCodeUnsupportedKind = "E101" // Data kind other than grid
	ErrCodeEmptyData       = "E102" // File has no header or rows
	ErrCodeParse           = "E103" // Malformed delimited content

	// Role mapping validation errors
	ErrCodeUnknownColumn  = "E110" // Mapped column missing from table
	ErrCodeInvalidRole    = "E111" // Role outside position, cell, face
	ErrCodeInvalidMapping = "E112" // Position count or duplicate column

	// Augmentation errors
	ErrCodeFaceColumns = "E120" // Face column names collide
)

// MapLoadErrorCode maps a dataset load error to a CLI error code.
func MapLoadErrorCode(err error) string {
	var mapErr *MappingError
	if errors.As(err, &mapErr) {
		return ErrCodeMapping
	}

	switch dataset.CodeOf(err) {
	case dataset.CodeNotFound:
		return ErrCodeNotFound
	case dataset.CodeUnsupportedKind:
		return ErrCodeUnsupportedKind
	case dataset.CodeEmptyData:
		return ErrCodeEmptyData
	case dataset.CodeParseError:
		return ErrCodeParse
	case dataset.CodeUnknownColumn:
		return ErrCodeUnknownColumn
	case dataset.CodeInvalidRole:
		return ErrCodeInvalidRole
	case dataset.CodeInvalidMapping:
		return ErrCodeInvalidMapping
	default:
		return ErrCodeGeneric
	}
}
