package history

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/CTAG07/vowelchain/pkg/letters"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			ctx, s, runs := setupTestStoreWithRuns(t)

			var buf bytes.Buffer
			if err := s.Export(ctx, &buf, format); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			exported := buf.Bytes()

			_, s2 := setupTestStore(t)
			inserted, err := s2.Import(ctx, bytes.NewReader(exported), format)
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			if inserted != len(runs) {
				t.Errorf("expected %d runs inserted, got %d", len(runs), inserted)
			}

			for _, want := range runs {
				got, err := s2.GetRun(ctx, want.ID)
				if err != nil {
					t.Fatalf("imported run %s missing: %v", want.ID, err)
				}
				if got.Name != want.Name || got.Summary != want.Summary || !got.CreatedAt.Equal(want.CreatedAt) {
					t.Errorf("imported run = %+v, want %+v", got, want)
				}
			}

			// A second import of the same data inserts nothing.
			again, err := s2.Import(ctx, bytes.NewReader(exported), format)
			if err != nil {
				t.Fatalf("second Import failed: %v", err)
			}
			if again != 0 {
				t.Errorf("expected 0 runs on re-import, got %d", again)
			}
		})
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	ctx, s, _ := setupTestStoreWithRuns(t)

	testCases := []struct {
		name  string
		input string
	}{
		{name: "Invalid JSON", input: "{not json"},
		{name: "Wrong version", input: `{"version": 99, "runs": []}`},
		{name: "Missing id", input: `{"version": 1, "runs": [{"name": "x", "created_at": "2024-01-01T00:00:00Z"}]}`},
		{name: "Negative counts", input: `{"version": 1, "runs": [{"id": "neg", "name": "x", "created_at": "2024-01-01T00:00:00Z",
			"summary": {"total": -4, "consonants": -5, "vowels": 1, "pairs": {"cc": -1, "cv": 2}}}]}`},
		{name: "Total mismatch", input: `{"version": 1, "runs": [{"id": "tot", "name": "x", "created_at": "2024-01-01T00:00:00Z",
			"summary": {"total": 9, "consonants": 3, "vowels": 3, "pairs": {"cv": 3, "vc": 2}}}]}`},
		{name: "Pair sum mismatch", input: `{"version": 1, "runs": [{"id": "pairs", "name": "x", "created_at": "2024-01-01T00:00:00Z",
			"summary": {"total": 6, "consonants": 3, "vowels": 3, "pairs": {"cv": 30, "vc": 2}}}]}`},
		{name: "Bad run after good run", input: `{"version": 1, "runs": [
			{"id": "good", "name": "ok", "created_at": "2024-01-01T00:00:00Z", "summary": {"total": 2, "consonants": 1, "vowels": 1, "pairs": {"cv": 1}}},
			{"id": "bad", "name": "x", "created_at": "2024-01-01T00:00:00Z", "summary": {"total": 1, "consonants": 1, "pairs": {"cc": 4}}}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Import(ctx, strings.NewReader(tc.input), FormatJSON); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}

	runs, _ := s.ListRuns(ctx, 0)
	if len(runs) != 3 {
		t.Errorf("failed imports changed the store: %d runs", len(runs))
	}

	totals, err := s.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if next, ok := totals.Summary.Model().Next(letters.Consonant); ok && (next.Consonant < 0 || next.Vowel < 0) {
		t.Errorf("totals produced a negative probability: %+v", next)
	}
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"msgpack", FormatMsgpack, false},
		{"mp", FormatMsgpack, false},
		{"xml", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, err=%v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestRecordRejectsInconsistentSummary(t *testing.T) {
	ctx, s, _ := setupTestStoreWithRuns(t)
	_, err := s.Record(ctx, "bad", "test", letters.Summary{Total: 1, Consonants: 2})
	if !errors.Is(err, letters.ErrInvalidSummary) {
		t.Errorf("expected ErrInvalidSummary, got %v", err)
	}
}
