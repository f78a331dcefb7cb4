package history

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrRunNotFound is returned when a run ID does not exist in the database.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so created_at orders lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SetupSchema initializes the run table and its index. It is idempotent and
// safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaRuns = `
CREATE TABLE IF NOT EXISTS letter_runs (
    run_id     TEXT    PRIMARY KEY,
    run_name   TEXT    NOT NULL,
    source     TEXT    NOT NULL,
    created_at TEXT    NOT NULL,
    total      INTEGER NOT NULL,
    consonants INTEGER NOT NULL,
    vowels     INTEGER NOT NULL,
    pair_cc    INTEGER NOT NULL,
    pair_cv    INTEGER NOT NULL,
    pair_vc    INTEGER NOT NULL,
    pair_vv    INTEGER NOT NULL
);
`
		schemaRunsIndex = `CREATE INDEX IF NOT EXISTS idx_letter_runs_created_at ON letter_runs(created_at);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaRuns); err != nil {
		return fmt.Errorf("could not create runs schema: %w", err)
	}
	if _, err = tx.Exec(schemaRunsIndex); err != nil {
		return fmt.Errorf("could not create runs index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store records and queries analysis runs. It holds prepared statements for
// every frequent query and is safe for concurrent use.
type Store struct {
	db            *sql.DB
	stmtInsertRun *sql.Stmt
	stmtGetRun    *sql.Stmt
	stmtListRuns  *sql.Stmt
	stmtRemoveRun *sql.Stmt
	stmtPruneRuns *sql.Stmt
	stmtTotals    *sql.Stmt
	stmtCountRuns *sql.Stmt
	logger        *slog.Logger
	now           func() time.Time
}

const runColumns = `run_id, run_name, source, created_at, total, consonants, vowels, pair_cc, pair_cv, pair_vc, pair_vv`

// NewStore prepares all statements against db. SetupSchema must have been
// called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	stmtInsertRun, err := db.Prepare(`INSERT INTO letter_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGetRun, err := db.Prepare(`SELECT ` + runColumns + ` FROM letter_runs WHERE run_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListRuns, err := db.Prepare(`SELECT ` + runColumns + ` FROM letter_runs ORDER BY created_at DESC, run_id LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveRun, err := db.Prepare(`DELETE FROM letter_runs WHERE run_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtPruneRuns, err := db.Prepare(`DELETE FROM letter_runs WHERE created_at < ?;`)
	if err != nil {
		return nil, err
	}

	stmtTotals, err := db.Prepare(`
SELECT coalesce(SUM(total), 0), coalesce(SUM(consonants), 0), coalesce(SUM(vowels), 0),
       coalesce(SUM(pair_cc), 0), coalesce(SUM(pair_cv), 0), coalesce(SUM(pair_vc), 0), coalesce(SUM(pair_vv), 0)
FROM letter_runs;`)
	if err != nil {
		return nil, err
	}

	stmtCountRuns, err := db.Prepare(`SELECT COUNT(*) FROM letter_runs;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:            db,
		stmtInsertRun: stmtInsertRun,
		stmtGetRun:    stmtGetRun,
		stmtListRuns:  stmtListRuns,
		stmtRemoveRun: stmtRemoveRun,
		stmtPruneRuns: stmtPruneRuns,
		stmtTotals:    stmtTotals,
		stmtCountRuns: stmtCountRuns,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
	}, nil
}

// Close releases all prepared statements held by the Store. The database
// itself is owned by the caller and stays open.
func (s *Store) Close() {
	_ = s.stmtInsertRun.Close()
	_ = s.stmtGetRun.Close()
	_ = s.stmtListRuns.Close()
	_ = s.stmtRemoveRun.Close()
	_ = s.stmtPruneRuns.Close()
	_ = s.stmtTotals.Close()
	_ = s.stmtCountRuns.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q: %w", v, err)
	}
	return t, nil
}
