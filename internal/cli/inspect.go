package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/gridset/internal/dataset"
	"github.com/roach88/gridset/internal/ledger"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	MappingFile string
	Kind        string
}

// InspectResult is the JSON payload of a successful inspect.
type InspectResult struct {
	Path     string               `json:"path"`
	Kind     string               `json:"kind"`
	Rows     int                  `json:"rows"`
	Columns  []string             `json:"columns"`
	Position string               `json:"position,omitempty"`
	Roles    []dataset.ColumnRole `json:"roles,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <csv>",
		Short: "Load a grid CSV and validate its role mapping",
		Long: `Load a grid CSV file and report its shape.

With --mapping, the column roles in the given YAML, JSON or CUE file are
validated against the file's header: every mapped column must exist, every
role must be position, cell or face, and exactly one column must be the
position column.

Example:
  gridset inspect data/grid.csv
  gridset inspect --mapping roles.yaml data/grid.csv
  gridset inspect --format json --mapping roles.cue data/grid.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.MappingFile, "mapping", "m", "", "role mapping file (.yaml, .yml, .json, .cue)")
	cmd.Flags().StringVar(&opts.Kind, "kind", string(dataset.KindGrid), "data kind")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	run := ledger.Run{Command: "inspect", InputPath: path}

	var mapping dataset.RoleMapping
	if opts.MappingFile != "" {
		m, err := LoadRoleMapping(opts.MappingFile)
		if err != nil {
			recordRun(opts.RootOptions, failedRun(run, ErrCodeMapping, err))
			return formatter.Fail(ExitCommandError, ErrCodeMapping, err.Error(), err)
		}
		mapping = m
		formatter.VerboseLog("Loaded %d role mapping entries from %s", len(mapping), opts.MappingFile)
	}

	loader := dataset.New(path,
		dataset.WithKind(dataset.Kind(opts.Kind)),
		dataset.WithRoleMapping(mapping),
	)
	run.InputPath = loader.Path()

	df, err := loader.Load()
	if err != nil {
		code := MapLoadErrorCode(err)
		recordRun(opts.RootOptions, failedRun(run, code, err))
		return formatter.Fail(ExitFailure, code, err.Error(), err)
	}

	run.Rows = df.NRows()
	run.Columns = len(df.Series)
	recordRun(opts.RootOptions, run)

	position, _ := mapping.PositionColumn()
	if formatter.Format == "json" {
		return formatter.Success(InspectResult{
			Path:     loader.Path(),
			Kind:     string(loader.Kind()),
			Rows:     df.NRows(),
			Columns:  df.Names(),
			Position: position,
			Roles:    mapping,
		})
	}

	fmt.Fprintln(formatter.Writer, loader.String())
	writeRoles(formatter.Writer, mapping)
	return nil
}

// writeRoles prints the role mapping grouped by role.
func writeRoles(w io.Writer, mapping dataset.RoleMapping) {
	if len(mapping) == 0 {
		return
	}
	fmt.Fprintln(w, "Roles:")
	for _, role := range dataset.Roles {
		columns := mapping.ColumnsWithRole(role)
		if len(columns) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-8s %v\n", role, columns)
	}
}
