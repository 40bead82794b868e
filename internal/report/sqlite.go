package report

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const exportSchema = `
CREATE TABLE matches (
	orig_addr   INTEGER,
	recomp_addr INTEGER,
	kind        TEXT,
	name        TEXT,
	size        INTEGER
);

CREATE TABLE match_options (
	addr  INTEGER NOT NULL,
	flag  TEXT NOT NULL,
	value TEXT
);
`

// Export writes the report to a fresh SQLite database at path, replacing
// any previous export. Row order follows the report.
func Export(path string, r *Report) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing sqlite export: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening sqlite export: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(exportSchema); err != nil {
		return fmt.Errorf("creating export schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting export transaction: %w", err)
	}
	defer tx.Rollback()

	insertMatch, err := tx.Prepare(
		"INSERT INTO matches (orig_addr, recomp_addr, kind, name, size) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing export: %w", err)
	}
	defer insertMatch.Close()

	for _, row := range r.Rows {
		var orig, recomp any
		if row.Orig != nil {
			orig = int64(*row.Orig)
		}
		if row.Recomp != nil {
			recomp = int64(*row.Recomp)
		}
		if _, err := insertMatch.Exec(orig, recomp, row.Kind.String(), row.Name, row.Size); err != nil {
			return fmt.Errorf("exporting match row: %w", err)
		}
	}

	insertOption, err := tx.Prepare(
		"INSERT INTO match_options (addr, flag, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing export: %w", err)
	}
	defer insertOption.Close()

	for _, o := range r.Options {
		if _, err := insertOption.Exec(int64(o.Addr), o.Flag, o.Value); err != nil {
			return fmt.Errorf("exporting option row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
