// Package logging persists answer provenance to SQLite so operators can
// audit which layer answered what, at what confidence, and how long it
// took.
package logging

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// #region schema

const answerLogSchema = `
CREATE TABLE IF NOT EXISTS answer_log (
	answer_id       TEXT NOT NULL,
	question        TEXT NOT NULL,
	answer_text     TEXT NOT NULL,
	layer           TEXT NOT NULL,
	method          TEXT NOT NULL,
	confidence      REAL NOT NULL,
	quality_json    TEXT,
	source_id       TEXT,
	latency_ms      INTEGER NOT NULL,
	tokens_consumed INTEGER,
	error_kind      TEXT,
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answer_log_layer ON answer_log(layer);
CREATE INDEX IF NOT EXISTS idx_answer_log_created ON answer_log(created_at);
`

// EnsureSchema creates the answer_log table if missing.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(answerLogSchema); err != nil {
		return fmt.Errorf("create answer_log schema: %w", err)
	}
	return nil
}

// #endregion schema

// #region log-answer

// LogAnswer writes one provenance entry to the answer_log table.
func LogAnswer(db *sqlx.DB, entry AnswerEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO answer_log (answer_id, question, answer_text, layer, method, confidence,
		 quality_json, source_id, latency_ms, tokens_consumed, error_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.AnswerID,
		entry.Question,
		entry.AnswerText,
		entry.Layer,
		entry.Method,
		entry.Confidence,
		nullIfEmpty(entry.QualityJSON),
		nullIfEmpty(entry.SourceID),
		entry.LatencyMS,
		nullIfZero(entry.TokensConsumed),
		nullIfEmpty(entry.ErrorKind),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log answer: %w", err)
	}
	return nil
}

// #endregion log-answer

// #region layer-counts

// LayerCounts returns how many logged answers each layer produced.
func LayerCounts(db *sqlx.DB) (map[string]int, error) {
	rows, err := db.Query(`SELECT layer, COUNT(*) FROM answer_log GROUP BY layer`)
	if err != nil {
		return nil, fmt.Errorf("layer counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var layer string
		var n int
		if err := rows.Scan(&layer, &n); err != nil {
			return nil, fmt.Errorf("layer counts: %w", err)
		}
		counts[layer] = n
	}
	return counts, rows.Err()
}

// #endregion layer-counts

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int64) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// #endregion helpers
