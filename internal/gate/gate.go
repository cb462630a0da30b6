package gate

import (
	"strings"

	"github.com/creditoracademy/answer-engine/internal/quality"
)

// #region phrase-lists

var uncertaintyPhrases = []string{
	"i think", "maybe", "perhaps", "possibly", "not sure", "unclear",
}

var fillerPhrases = []string{
	"thank you for asking", "that is a good question", "i understand your concern",
}

var avoidancePhrases = []string{
	"i cannot help", "unable to assist", "cannot provide", "not able to",
}

// #endregion phrase-lists

// #region validator

// Validator gates answers before they leave the pipeline: quality score
// plus pattern checks over the answer text. First failing rule wins.
type Validator struct {
	config Config
}

// NewValidator creates a validator with the given thresholds.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// #endregion validator

// #region validate

// Validate checks an answer against its question and optional context.
// Always returns a Decision; never errors.
func (v *Validator) Validate(question, answer, context string) Decision {
	score := quality.Evaluate(question, answer, context)
	lower := strings.ToLower(answer)

	// 1. Too short to be useful
	if len(answer) < v.config.MinAnswerLen {
		return reject(score, 0.05, "too short")
	}

	// 2. Suspiciously long
	if len(answer) > v.config.MaxAnswerLen {
		return reject(score, 0.15, "too long (possible hallucination)")
	}

	// 3. Composite quality floor
	if score.Total < 0.60 {
		return reject(score, score.Total, "low quality")
	}

	// 4. Hedging only tolerated when quality is high
	if containsAny(lower, uncertaintyPhrases) && score.Total < 0.80 {
		return reject(score, score.Total, "uncertainty without high confidence")
	}

	// 5. Short answers that are mostly pleasantries
	if containsAny(lower, fillerPhrases) && len(answer) < 100 {
		return reject(score, score.Total, "generic filler")
	}

	// 6. Refusals must at least point somewhere
	if containsAny(lower, avoidancePhrases) && !strings.Contains(lower, "contact support") {
		return reject(score, score.Total, "avoidance without guidance")
	}

	// 7. Admitted unknowns need compensating quality
	if strings.Contains(lower, "i don't know") && score.Total < 0.75 {
		return reject(score, score.Total, "unknown without guidance")
	}

	// 8. Apologies need substance behind them
	if (strings.Contains(lower, "error") || strings.Contains(lower, "sorry")) && score.Total < 0.70 {
		return reject(score, score.Total, "apology without substance")
	}

	// 9. Final acceptance floor
	if score.Total < v.config.MinQualityScore {
		return reject(score, score.Total, "below minimum")
	}

	return Decision{Valid: true, Confidence: score.Total, Score: score}
}

func reject(score quality.Score, confidence float64, reason string) Decision {
	return Decision{Valid: false, Confidence: confidence, Reason: reason, Score: score}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// #endregion validate
