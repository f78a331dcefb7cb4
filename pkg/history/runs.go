package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CTAG07/vowelchain/pkg/letters"
	"github.com/google/uuid"
)

// DefaultListLimit is used by ListRuns when limit is not positive.
const DefaultListLimit = 100

// Run is one recorded analysis: the summary of a text plus where it came from.
type Run struct {
	ID        string          `json:"id" yaml:"id" msgpack:"id"`
	Name      string          `json:"name" yaml:"name" msgpack:"name"`
	Source    string          `json:"source" yaml:"source" msgpack:"source"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	Summary   letters.Summary `json:"summary" yaml:"summary" msgpack:"summary"`
}

// Totals is the sum of every recorded run.
type Totals struct {
	Runs    int             `json:"runs" yaml:"runs"`
	Summary letters.Summary `json:"summary" yaml:"summary"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt string
	p := &run.Summary.Pairs
	err := row.Scan(&run.ID, &run.Name, &run.Source, &createdAt,
		&run.Summary.Total, &run.Summary.Consonants, &run.Summary.Vowels,
		&p.CC, &p.CV, &p.VC, &p.VV)
	if err != nil {
		return Run{}, err
	}
	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return Run{}, err
	}
	return run, nil
}

func runArgs(run Run) []any {
	p := run.Summary.Pairs
	return []any{run.ID, run.Name, run.Source, formatTime(run.CreatedAt),
		run.Summary.Total, run.Summary.Consonants, run.Summary.Vowels,
		p.CC, p.CV, p.VC, p.VV}
}

// Record stores the summary of one analysed text under a new run ID.
func (s *Store) Record(ctx context.Context, name, source string, summary letters.Summary) (Run, error) {
	if err := summary.Check(); err != nil {
		return Run{}, fmt.Errorf("could not record run '%s': %w", name, err)
	}
	run := Run{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		CreatedAt: s.now().UTC(),
		Summary:   summary,
	}

	if _, err := s.stmtInsertRun.ExecContext(ctx, runArgs(run)...); err != nil {
		return Run{}, fmt.Errorf("could not record run '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Run recorded",
		slog.String("run_id", run.ID),
		slog.String("run_name", name),
		slog.Int("letters", summary.Total),
	)
	return run, nil
}

// GetRun fetches a single run. It returns ErrRunNotFound for an unknown ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.stmtGetRun.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("could not get run '%s': %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.stmtListRuns.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// RemoveRun deletes a run. It returns ErrRunNotFound when nothing was deleted.
func (s *Store) RemoveRun(ctx context.Context, id string) error {
	res, err := s.stmtRemoveRun.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("could not remove run '%s': %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunNotFound
	}

	s.logger.InfoContext(ctx, "Run removed", slog.String("run_id", id))
	return nil
}

// PruneRuns removes every run recorded before cutoff and returns how many
// were removed.
func (s *Store) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.stmtPruneRuns.ExecContext(ctx, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("could not prune runs: %w", err)
	}
	removed, _ := res.RowsAffected()

	s.logger.InfoContext(ctx, "Runs pruned",
		slog.String("cutoff", formatTime(cutoff)),
		slog.Int64("runs_removed", removed),
	)
	return removed, nil
}

// Totals sums the summaries of all recorded runs. Pairs spanning two runs do
// not exist, so the pair total is the sum of each run's own pairs.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	if err := s.stmtCountRuns.QueryRowContext(ctx).Scan(&t.Runs); err != nil {
		return Totals{}, err
	}

	sum := &t.Summary
	p := &sum.Pairs
	err := s.stmtTotals.QueryRowContext(ctx).Scan(&sum.Total, &sum.Consonants, &sum.Vowels,
		&p.CC, &p.CV, &p.VC, &p.VV)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}
