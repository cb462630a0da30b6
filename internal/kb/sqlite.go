package kb

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// #region schema

const curatedSchema = `
CREATE TABLE IF NOT EXISTS curated_entries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    question_key  TEXT NOT NULL UNIQUE,
    answer        TEXT NOT NULL,
    category      TEXT NOT NULL DEFAULT 'general',
    tags          TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region open

// OpenDB opens the curated SQLite database and runs migrations.
func OpenDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open kb db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(curatedSchema); err != nil {
		return nil, fmt.Errorf("migrate kb: %w", err)
	}
	return db, nil
}

// #endregion open

// #region load

// row mirrors a curated_entries record for sqlx scanning.
type row struct {
	Key      string `db:"question_key"`
	Answer   string `db:"answer"`
	Category string `db:"category"`
	Tags     string `db:"tags"`
}

// LoadSQLite reads every curated entry from the database and builds a Store.
func LoadSQLite(db *sqlx.DB) (*Store, error) {
	var rows []row
	err := db.Select(&rows,
		`SELECT question_key, answer, category, tags FROM curated_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load curated entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := Entry{Key: r.Key, Answer: r.Answer, Category: Category(r.Category)}
		if r.Tags != "" {
			e.Tags = strings.Split(r.Tags, ",")
		}
		entries = append(entries, e)
	}
	return NewStore(entries)
}

// #endregion load

// #region import

// Import upserts entries into the curated_entries table. Returns the
// number of rows written.
func Import(db *sqlx.DB, entries []Entry) (int, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	written := 0
	for _, e := range entries {
		_, err := tx.Exec(
			`INSERT INTO curated_entries (question_key, answer, category, tags, created_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(question_key) DO UPDATE SET
			   answer = excluded.answer,
			   category = excluded.category,
			   tags = excluded.tags`,
			e.Key, e.Answer, string(e.Category), strings.Join(e.Tags, ","), now,
		)
		if err != nil {
			return written, fmt.Errorf("import entry %q: %w", e.Key, err)
		}
		written++
	}
	return written, tx.Commit()
}

// #endregion import
