package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/gridset/internal/augment"
	"github.com/roach88/gridset/internal/dataset"
	"github.com/roach88/gridset/internal/ledger"
	"github.com/roach88/gridset/internal/tabular"
)

// AugmentOptions holds flags for the augment command.
type AugmentOptions struct {
	*RootOptions
	Output string
	Seed   int64
	Prefix string

	// Source overrides the random source (for testing).
	// If nil, one is built from Seed.
	Source augment.Source
}

// AugmentResult is the JSON payload of a successful augment.
type AugmentResult struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Faces   []string `json:"faces"`
	Output  string   `json:"output"`
}

// NewAugmentCommand creates the augment command.
func NewAugmentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AugmentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "augment <csv>",
		Short: "Add randomized face columns to a grid CSV",
		Long: `Add four face columns to a grid CSV, with two random values per row.

For every row, two of the four face columns are chosen at random and filled
with an integer between 1 and 5; the other two are left empty. The input is
overwritten unless --output is given.

Example:
  gridset augment data/grid_random.csv
  gridset augment -o data/grid_faces.csv --seed 7 data/grid_random.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAugment(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "path to write output CSV (defaults to overwrite input)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", augment.DefaultPrefix, "face column name prefix")

	return cmd
}

func runAugment(opts *AugmentOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.settings()

	seed := opts.Seed
	if !cmd.Flags().Changed("seed") {
		seed = cfg.Augment.Seed
	}
	prefix := opts.Prefix
	if !cmd.Flags().Changed("prefix") {
		prefix = cfg.Augment.Prefix
	}

	loader := dataset.New(input)
	run := ledger.Run{Command: "augment", InputPath: loader.Path()}

	df, err := loader.Load()
	if err != nil {
		if dataset.HasCode(err, dataset.CodeNotFound) {
			msg := fmt.Sprintf("input file not found: %s", loader.Path())
			recordRun(opts.RootOptions, failedRun(run, ErrCodeNotFound, err))
			return formatter.Fail(ExitFailure, ErrCodeNotFound, msg, err)
		}
		msg := fmt.Sprintf("failed to load CSV: %v", err)
		recordRun(opts.RootOptions, failedRun(run, ErrCodeReadFailed, err))
		return formatter.Fail(ExitFailure, ErrCodeReadFailed, msg, err)
	}
	formatter.VerboseLog("Loaded %d rows from %s", df.NRows(), loader.Path())

	src := opts.Source
	if src == nil {
		if seed < 0 {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid seed %d: must be non-negative", seed), nil)
		}
		src = augment.NewSource(uint64(seed))
	}

	out, err := augment.Augment(src, df, augment.WithPrefix(prefix))
	if err != nil {
		code := ErrCodeGeneric
		if errors.Is(err, augment.ErrColumnExists) {
			code = ErrCodeFaceColumns
		}
		recordRun(opts.RootOptions, failedRun(run, code, err))
		return formatter.Fail(ExitFailure, code, err.Error(), err)
	}

	outputPath := loader.Path()
	if opts.Output != "" {
		if abs, err := filepath.Abs(opts.Output); err == nil {
			outputPath = abs
		} else {
			outputPath = filepath.Clean(opts.Output)
		}
	}
	run.OutputPath = outputPath

	if err := tabular.WriteFile(outputPath, out); err != nil {
		msg := fmt.Sprintf("failed to write CSV: %v", err)
		recordRun(opts.RootOptions, failedRun(run, ErrCodeWriteFailed, err))
		return formatter.Fail(ExitFailure, ErrCodeWriteFailed, msg, err)
	}

	run.Rows = out.NRows()
	run.Columns = len(out.Series)
	recordRun(opts.RootOptions, run)

	faces := augment.FaceNames(prefix)
	if formatter.Format == "json" {
		return formatter.Success(AugmentResult{
			Rows:    out.NRows(),
			Columns: len(out.Series),
			Faces:   faces,
			Output:  outputPath,
		})
	}

	fmt.Fprintf(formatter.Writer, "Written %d rows with %s..%s to %s\n",
		out.NRows(), faces[0], faces[len(faces)-1], outputPath)
	return nil
}
