// Package dataset loads grid datasets from CSV files.
//
// A [Loader] wraps a file path, a data kind and an optional [RoleMapping].
// Nothing is checked at construction time. Each call to [Loader.Load] or
// [Loader.LoadFrom] runs the full sequence:
//
//  1. The kind must be [KindGrid].
//  2. The path must reference an existing file.
//  3. The file is parsed into a dataframe.
//  4. A non-empty role mapping is validated against the parsed columns.
//
// Only when every step succeeds is the loaded table replaced. A failed load
// leaves the previously loaded table (if any) in place.
//
// # Role mappings
//
// A role mapping assigns a semantic role to some of the table's columns:
//
//	dataset.RoleMapping{
//	    {Column: "pos", Role: dataset.RolePosition},
//	    {Column: "val", Role: dataset.RoleCell},
//	    {Column: "face1", Role: dataset.RoleFace},
//	}
//
// Exactly one column must be the position column. Any number of columns may
// carry the cell or face role. An empty mapping requests no validation.
//
// # Errors
//
// All failures are returned as [*Error] with one of the [ErrorCode] values.
// Use [CodeOf] or [HasCode] to branch on them.
//
// A Loader is not safe for concurrent use.
package dataset
