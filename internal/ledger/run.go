package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded CLI invocation.
type Run struct {
	Seq        int64  `json:"seq"`
	ID         string `json:"id"`
	Command    string `json:"command"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path,omitempty"`
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	Status     Status `json:"status"`
	ErrorCode  string `json:"error_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// NewRunID returns a time-sortable UUIDv7 string.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Record appends run to the ledger and returns it with Seq set.
// An empty ID is replaced by NewRunID().
func (l *Ledger) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.Status == "" {
		run.Status = StatusOK
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, command, input_path, output_path, row_count, col_count, status, error_code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Command,
		run.InputPath,
		run.OutputPath,
		run.Rows,
		run.Columns,
		string(run.Status),
		run.ErrorCode,
		run.Message,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	run.Seq = seq
	return run, nil
}

// Runs returns every recorded run ordered by seq.
// Returns an empty slice (not nil) if the ledger is empty.
func (l *Ledger) Runs(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, id, command, input_path, output_path, row_count, col_count, status, error_code, message
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadRun returns the run with the given id.
func (l *Ledger) ReadRun(ctx context.Context, id string) (Run, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT seq, id, command, input_path, output_path, row_count, col_count, status, error_code, message
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run    Run
		status string
	)
	err := s.Scan(
		&run.Seq,
		&run.ID,
		&run.Command,
		&run.InputPath,
		&run.OutputPath,
		&run.Rows,
		&run.Columns,
		&status,
		&run.ErrorCode,
		&run.Message,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Status = Status(status)
	return run, nil
}
