package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Write serializes df as comma-separated text: a header record followed by
// one record per row. Null values are written as empty fields.
func Write(w io.Writer, df *dataframe.DataFrame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(df.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(df.Series))
	rows := df.NRows()
	for row := 0; row < rows; row++ {
		for i, s := range df.Series {
			record[i] = FormatValue(s.Value(row))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes df to path, creating or truncating the file.
func WriteFile(path string, df *dataframe.DataFrame) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return Write(f, df)
}

// FormatValue renders a single series value as a CSV field.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// formatFloat keeps a decimal point on integral values so the column is
// read back as float64.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}

	var s string
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
