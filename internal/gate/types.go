package gate

import "github.com/creditoracademy/answer-engine/internal/quality"

// #region config

// Config holds thresholds for answer validation.
type Config struct {
	MinAnswerLen    int     // reject shorter answers outright
	MaxAnswerLen    int     // reject longer answers as likely hallucination
	MinQualityScore float64 // final acceptance floor on the composite score
}

// DefaultConfig returns the production validation thresholds.
func DefaultConfig() Config {
	return Config{
		MinAnswerLen:    20,
		MaxAnswerLen:    2000,
		MinQualityScore: 0.75,
	}
}

// #endregion config

// #region decision

// Decision is the outcome of validating one answer.
type Decision struct {
	Valid      bool
	Confidence float64
	Reason     string
	Score      quality.Score // breakdown that drove the decision
}

// #endregion decision
