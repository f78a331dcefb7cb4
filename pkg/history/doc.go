/*
Package history keeps a SQLite-backed record of letter analysis runs.

Each run stores the raw counts and pair tallies of one analysed text, never a
built model: transition models are always recomputed from counts with
letters.FromStats. Runs can be listed, aggregated, pruned by age, and moved
between databases with Export and Import (JSON or MessagePack).

The package works with any database/sql SQLite driver; the vowelchain command
uses modernc.org/sqlite by default and github.com/mattn/go-sqlite3 when built
with the cgo_sqlite tag.
*/
package history
