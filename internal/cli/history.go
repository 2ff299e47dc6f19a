package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/gridset/internal/ledger"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the ledger",
		Long: `List the inspect and augment runs recorded in the SQLite ledger.

The ledger path comes from --ledger or GRIDSET_LEDGER. With --id, only the
run with that id is shown.

Example:
  gridset --ledger runs.db history
  gridset --ledger runs.db --format json history
  gridset --ledger runs.db history --id 0192f1c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single run by id")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Ledger == "" {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, "no ledger configured (use --ledger or GRIDSET_LEDGER)", nil)
	}

	l, err := ledger.Open(opts.Ledger)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLedger, err.Error(), err)
	}
	defer l.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.ID != "" {
		return showRun(ctx, formatter, l, opts.ID)
	}

	runs, err := l.Runs(ctx)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLedger, err.Error(), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tCOMMAND\tSTATUS\tROWS\tCOLUMNS\tINPUT\tOUTPUT")
	for _, r := range runs {
		status := string(r.Status)
		if r.ErrorCode != "" {
			status = fmt.Sprintf("%s (%s)", r.Status, r.ErrorCode)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.Seq, r.Command, status, r.Rows, r.Columns, r.InputPath, r.OutputPath)
	}
	return tw.Flush()
}

// showRun prints a single run.
func showRun(ctx context.Context, formatter *OutputFormatter, l *ledger.Ledger, id string) error {
	run, err := l.ReadRun(ctx, id)
	if errors.Is(err, ledger.ErrRunNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, err.Error(), err)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLedger, err.Error(), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(run)
	}
	writeRun(formatter.Writer, run)
	return nil
}

// writeRun prints one run as aligned key/value lines.
func writeRun(w io.Writer, r ledger.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Seq:\t%d\n", r.Seq)
	fmt.Fprintf(tw, "Command:\t%s\n", r.Command)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	if r.ErrorCode != "" {
		fmt.Fprintf(tw, "Error:\t%s %s\n", r.ErrorCode, r.Message)
	}
	fmt.Fprintf(tw, "Input:\t%s\n", r.InputPath)
	if r.OutputPath != "" {
		fmt.Fprintf(tw, "Output:\t%s\n", r.OutputPath)
	}
	fmt.Fprintf(tw, "Shape:\t%d rows, %d columns\n", r.Rows, r.Columns)
	_ = tw.Flush()
}

// recordRun appends run to the configured ledger. Ledger failures are
// logged and never fail the command.
func recordRun(opts *RootOptions, run ledger.Run) {
	if opts.Ledger == "" {
		return
	}

	l, err := ledger.Open(opts.Ledger)
	if err != nil {
		slog.Warn("ledger unavailable", "path", opts.Ledger, "error", err)
		return
	}
	defer func() {
		if closeErr := l.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	recorded, err := l.Record(context.Background(), run)
	if err != nil {
		slog.Warn("failed to record run", "command", run.Command, "error", err)
		return
	}
	slog.Debug("run recorded", "id", recorded.ID, "seq", recorded.Seq)
}

// failedRun marks run as failed with the given code and cause.
func failedRun(run ledger.Run, code string, err error) ledger.Run {
	run.Status = ledger.StatusError
	run.ErrorCode = code
	if err != nil {
		run.Message = err.Error()
	}
	return run
}
