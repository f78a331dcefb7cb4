package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// exportVersion is bumped whenever ExportedHistory changes shape.
const exportVersion = 1

// Format selects the encoding used by Export and Import.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "json", "msgpack" or "mp" in any case.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown export format %q", v)
}

// ExportedHistory is the serializable form of every run in a database.
type ExportedHistory struct {
	Version int   `json:"version" msgpack:"version"`
	Runs    []Run `json:"runs" msgpack:"runs"`
}

// Export writes every run, oldest first, to w.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM letter_runs ORDER BY created_at, run_id`)
	if err != nil {
		return fmt.Errorf("could not query runs for export: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	exported := ExportedHistory{Version: exportVersion, Runs: make([]Run, 0)}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return err
		}
		exported.Runs = append(exported.Runs, run)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "History exported",
		slog.String("format", string(format)),
		slog.Int("runs_exported", len(exported.Runs)),
	)

	switch format {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(&exported)
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(exported)
	}
}

// Import reads an ExportedHistory from r and inserts its runs in a single
// transaction. Every run must have an ID and a consistent summary, or nothing
// is imported. Runs whose ID already exists are left alone. It returns the
// number of runs inserted.
func (s *Store) Import(ctx context.Context, r io.Reader, format Format) (int, error) {
	var imported ExportedHistory
	var err error
	switch format {
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&imported)
	default:
		err = json.NewDecoder(r).Decode(&imported)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s history: %w", format, err)
	}
	if imported.Version != exportVersion {
		return 0, fmt.Errorf("unsupported history version %d", imported.Version)
	}
	for _, run := range imported.Runs {
		if run.ID == "" {
			return 0, fmt.Errorf("import consistency error: run '%s' has no id", run.Name)
		}
		if err = run.Summary.Check(); err != nil {
			return 0, fmt.Errorf("import consistency error: run '%s': %w", run.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmtImportRun, err := tx.PrepareContext(ctx, `INSERT INTO letter_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(run_id) DO NOTHING;`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare run import statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtImportRun)

	var inserted int
	for _, run := range imported.Runs {
		res, err := stmtImportRun.ExecContext(ctx, runArgs(run)...)
		if err != nil {
			return 0, fmt.Errorf("failed to import run '%s': %w", run.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit import: %w", err)
	}

	s.logger.InfoContext(ctx, "History imported",
		slog.String("format", string(format)),
		slog.Int("runs_read", len(imported.Runs)),
		slog.Int("runs_inserted", inserted),
	)
	return inserted, nil
}
