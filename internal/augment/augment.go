// Package augment injects randomized face columns into grid tables.
//
// Every generated row has FaceCount face slots. FacesPerRow of them, chosen
// uniformly without replacement, hold an integer in [MinFaceValue,
// MaxFaceValue]; the others are null.
package augment

import (
	"errors"
	"fmt"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

const (
	FaceCount    = 4
	FacesPerRow  = 2
	MinFaceValue = 1
	MaxFaceValue = 5

	// DefaultPrefix names the face columns iscc1..iscc4.
	DefaultPrefix = "iscc"
)

var (
	// ErrNoTable is returned when Augment is given a nil table.
	ErrNoTable = errors.New("no table to augment")

	// ErrColumnExists is returned when a face column name is already taken.
	ErrColumnExists = errors.New("face column already exists")

	// ErrInvalidPrefix is returned for an empty column prefix.
	ErrInvalidPrefix = errors.New("face column prefix must not be empty")
)

type options struct {
	prefix string
}

// Option configures Generate and Augment.
type Option func(*options)

// WithPrefix sets the face column prefix.
// Default: "iscc"
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func resolve(opts []Option) options {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FaceNames returns the face column names for prefix.
func FaceNames(prefix string) []string {
	names := make([]string, FaceCount)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return names
}

// Generate builds a table of rows rows and FaceCount int64 face columns.
func Generate(src Source, rows int, opts ...Option) *dataframe.DataFrame {
	o := resolve(opts)

	cols := make([][]interface{}, FaceCount)
	for c := range cols {
		cols[c] = make([]interface{}, rows)
	}
	for r := 0; r < rows; r++ {
		for _, c := range Sample(src, FaceCount, FacesPerRow) {
			cols[c][r] = int64(UniformInt(src, MinFaceValue, MaxFaceValue))
		}
	}

	names := FaceNames(o.prefix)
	series := make([]dataframe.Series, FaceCount)
	for c := range series {
		series[c] = dataframe.NewSeriesInt64(names[c], nil, cols[c]...)
	}
	return dataframe.NewDataFrame(series...)
}

// Augment returns a new table holding copies of df's columns followed by
// freshly generated face columns. df itself is not modified.
func Augment(src Source, df *dataframe.DataFrame, opts ...Option) (*dataframe.DataFrame, error) {
	if df == nil {
		return nil, ErrNoTable
	}
	o := resolve(opts)
	if o.prefix == "" {
		return nil, ErrInvalidPrefix
	}

	existing := make(map[string]bool, len(df.Series))
	for _, name := range df.Names() {
		existing[name] = true
	}
	for _, name := range FaceNames(o.prefix) {
		if existing[name] {
			return nil, fmt.Errorf("%w: %s", ErrColumnExists, name)
		}
	}

	faces := Generate(src, df.NRows(), opts...)

	series := make([]dataframe.Series, 0, len(df.Series)+FaceCount)
	for _, s := range df.Series {
		series = append(series, s.Copy())
	}
	series = append(series, faces.Series...)
	return dataframe.NewDataFrame(series...), nil
}
