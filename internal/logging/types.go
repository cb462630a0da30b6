package logging

import "time"

// #region answer-entry
// AnswerEntry is a single row in the answer_log table: the full
// provenance of one resolved question.
type AnswerEntry struct {
	AnswerID       string
	Question       string
	AnswerText     string
	Layer          string // "CURATED" | "SEMANTIC" | "LLM" | "FALLBACK"
	Method         string
	Confidence     float64
	QualityJSON    string // QualityScore breakdown, when a validator ran
	SourceID       string
	LatencyMS      int64
	TokensConsumed int64
	ErrorKind      string
	CreatedAt      time.Time
}

// #endregion answer-entry
