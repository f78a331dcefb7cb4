package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/CTAG07/vowelchain/pkg/letters"
	_ "modernc.org/sqlite"
)

// setupTestStore creates a new on-disk SQLite database in a temp dir and a
// Store for testing. It uses t.Cleanup to release resources.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

// fixedClock makes Store.now return successive times one minute apart,
// starting at start.
func fixedClock(s *Store, start time.Time) {
	next := start
	s.now = func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func summaryOf(t *testing.T, text string) letters.Summary {
	t.Helper()
	seq, err := letters.NewFromString(text)
	if err != nil {
		t.Fatalf("NewFromString(%q) failed: %v", text, err)
	}
	return seq.Summary()
}

// setupTestStoreWithRuns records three runs: banana, aeiou, strength.
func setupTestStoreWithRuns(t *testing.T) (context.Context, *Store, []Run) {
	_, s := setupTestStore(t)
	ctx := context.Background()
	fixedClock(s, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	var runs []Run
	for _, text := range []string{"banana", "aeiou", "strength"} {
		run, err := s.Record(ctx, text, "test", summaryOf(t, text))
		if err != nil {
			t.Fatalf("setup: Record(%q) failed: %v", text, err)
		}
		runs = append(runs, run)
	}
	return ctx, s, runs
}
