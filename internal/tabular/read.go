package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// ErrEmptyData is returned by Parse when the input holds no header record.
var ErrEmptyData = errors.New("no columns to parse from file")

// naTokens are cell values read as null.
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
}

// IsNA reports whether a raw cell value is read as null.
func IsNA(s string) bool {
	return naTokens[s]
}

// ErrInvalidUTF8 is returned by Parse for a record that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// utf8BOM is stripped from the start of the input.
const utf8BOM = "\xef\xbb\xbf"

// Parse reads delimited text from r into a dataframe.
//
// The input must be UTF-8; a leading byte order mark is dropped. Blank lines
// are skipped. Rows shorter than the header are padded with nulls; rows
// longer than the header are an error.
func Parse(r io.Reader) (*dataframe.DataFrame, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkUTF8(cr, header); err != nil {
		return nil, err
	}

	names := headerNames(header)
	cells := make([][]string, len(names))

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := checkUTF8(cr, record); err != nil {
			return nil, err
		}
		if len(record) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(names), len(record))
		}
		for i := range names {
			if i < len(record) {
				cells[i] = append(cells[i], record[i])
			} else {
				cells[i] = append(cells[i], "")
			}
		}
	}

	series := make([]dataframe.Series, len(names))
	for i, name := range names {
		series[i] = inferSeries(name, cells[i])
	}
	return dataframe.NewDataFrame(series...), nil
}

// checkUTF8 rejects a record holding bytes that are not valid UTF-8.
func checkUTF8(cr *csv.Reader, record []string) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, col := cr.FieldPos(i)
			return fmt.Errorf("line %d, column %d: %w", line, col, ErrInvalidUTF8)
		}
	}
	return nil
}

// headerNames returns unique column names for a header record.
// Blank names become "Unnamed: <index>" and repeats get a ".<n>" suffix.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", name, n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindString
)

// inferSeries picks the narrowest series type that holds every value.
func inferSeries(name string, raw []string) dataframe.Series {
	kind := kindInt
	hasValue := false
	for _, s := range raw {
		if IsNA(s) {
			continue
		}
		hasValue = true
		if isHexLiteral(s) {
			kind = kindString
			break
		}
		if kind == kindInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = kindFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			kind = kindString
			break
		}
	}
	if !hasValue {
		kind = kindFloat
	}

	vals := make([]interface{}, len(raw))
	for i, s := range raw {
		if IsNA(s) {
			continue
		}
		switch kind {
		case kindInt:
			v, _ := strconv.ParseInt(s, 10, 64)
			vals[i] = v
		case kindFloat:
			v, _ := strconv.ParseFloat(s, 64)
			vals[i] = v
		default:
			vals[i] = s
		}
	}

	switch kind {
	case kindInt:
		return dataframe.NewSeriesInt64(name, nil, vals...)
	case kindFloat:
		return dataframe.NewSeriesFloat64(name, nil, vals...)
	default:
		return dataframe.NewSeriesString(name, nil, vals...)
	}
}

// isHexLiteral reports whether s carries a 0x prefix. strconv.ParseFloat
// accepts hex floats; these cells stay strings.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
