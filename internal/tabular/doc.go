// Package tabular reads and writes comma-separated files as dataframes.
//
// The first record is the header and names the columns. Every following
// record is a row. Each column is typed from its values:
//
//   - int64 when every non-null cell parses as an integer
//   - float64 when every non-null cell parses as a number, or when the
//     column holds no values at all
//   - string otherwise
//
// Null cells are empty fields and the usual NA tokens (NA, N/A, NaN, null,
// None, <NA>). They are stored as nil values in the resulting series.
//
// A UTF-8 byte order mark at the start of the input is dropped so that the
// first header name is not polluted by it.
package tabular
