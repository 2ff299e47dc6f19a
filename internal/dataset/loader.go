package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/roach88/gridset/internal/tabular"
)

// Loader reads a grid CSV file into a dataframe and checks its role mapping.
type Loader struct {
	path    string
	kind    Kind
	mapping RoleMapping
	logger  *slog.Logger

	// table is nil until a load succeeds.
	table *dataframe.DataFrame
}

// Option configures a Loader.
type Option func(*Loader)

// WithKind sets the data kind. It is checked at load time, not here.
func WithKind(kind Kind) Option {
	return func(l *Loader) {
		l.kind = kind
	}
}

// WithRoleMapping sets the column role mapping. The slice is copied.
func WithRoleMapping(m RoleMapping) Option {
	return func(l *Loader) {
		if m == nil {
			l.mapping = nil
			return
		}
		l.mapping = make(RoleMapping, len(m))
		copy(l.mapping, m)
	}
}

// WithLogger sets the logger used for load diagnostics.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for path with kind "grid" and no role mapping.
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		path: absPath(path),
		kind: KindGrid,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Path returns the absolute path the next Load reads.
func (l *Loader) Path() string { return l.path }

// Kind returns the configured data kind.
func (l *Loader) Kind() Kind { return l.kind }

// Mapping returns a copy of the role mapping.
func (l *Loader) Mapping() RoleMapping {
	if l.mapping == nil {
		return nil
	}
	m := make(RoleMapping, len(l.mapping))
	copy(m, l.mapping)
	return m
}

// Table returns the last successfully loaded table.
// ok is false if nothing has been loaded yet.
func (l *Loader) Table() (table *dataframe.DataFrame, ok bool) {
	return l.table, l.table != nil
}

// Load reads the file at the stored path.
func (l *Loader) Load() (*dataframe.DataFrame, error) {
	return l.load()
}

// LoadFrom replaces the stored path with path, for this and all later
// loads, and then reads it.
func (l *Loader) LoadFrom(path string) (*dataframe.DataFrame, error) {
	l.path = absPath(path)
	return l.load()
}

func (l *Loader) load() (*dataframe.DataFrame, error) {
	if l.kind != KindGrid {
		return nil, newUnsupportedKindError(l.kind)
	}

	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newNotFoundError(l.path, err)
		}
		return nil, newParseError(l.path, err)
	}
	if info.IsDir() {
		return nil, newNotFoundError(l.path, nil)
	}

	df, err := readFile(l.path)
	if err != nil {
		switch {
		case errors.Is(err, tabular.ErrEmptyData):
			return nil, newEmptyDataError(l.path)
		case errors.Is(err, fs.ErrNotExist):
			return nil, newNotFoundError(l.path, err)
		default:
			return nil, newParseError(l.path, err)
		}
	}

	if len(l.mapping) > 0 {
		if err := l.mapping.Validate(df.Names()); err != nil {
			var e *Error
			if errors.As(err, &e) {
				e.Path = l.path
			}
			return nil, err
		}
	}

	l.table = df
	l.logger.Debug("dataset loaded",
		"path", l.path,
		"rows", df.NRows(),
		"columns", len(df.Series),
		"mapped", len(l.mapping),
	)
	return df, nil
}

// readFile parses the file at path. The file is closed on every path.
func readFile(path string) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tabular.Parse(f)
}

// absPath normalizes path to an absolute, cleaned form.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// String returns a human-readable summary of the loaded table.
func (l *Loader) String() string {
	name := filepath.Base(l.path)
	if l.table == nil {
		return fmt.Sprintf("DataSet(%q) not loaded. Call Load() first.", name)
	}
	names := l.table.Names()
	return fmt.Sprintf("DataSet(%q): %d rows, %d columns\nColumns: [%s]",
		name, l.table.NRows(), len(names), strings.Join(names, ", "))
}

// GoString returns an unambiguous representation of the Loader.
func (l *Loader) GoString() string {
	return fmt.Sprintf("<DataSet(path=%q, kind=%q, loaded=%q)>", l.path, string(l.kind), l.status())
}

func (l *Loader) status() string {
	if l.table == nil {
		return "not loaded"
	}
	return fmt.Sprintf("%d rows", l.table.NRows())
}
