package quality

import (
	"regexp"
	"strings"
	"unicode"
)

// #region score-type

// Weights for the composite score. They sum to 1.0.
const (
	WeightRelevance    = 0.45
	WeightCompleteness = 0.25
	WeightClarity      = 0.20
	WeightKBAlignment  = 0.10
)

// Score is the multi-dimensional quality assessment of an answer.
// All components and Total are in [0, 1].
type Score struct {
	Relevance    float64 `json:"relevance"`
	Completeness float64 `json:"completeness"`
	Clarity      float64 `json:"clarity"`
	KBAlignment  float64 `json:"kb_alignment"`
	Total        float64 `json:"total"`
}

// #endregion score-type

// #region word-lists

var howActionWords = []string{"step", "follow", "click", "go", "navigate", "select", "enter"}

var whatDefinitionWords = []string{"is", "are", "refers", "means", "defined"}

var whenTimeWords = []string{"date", "time", "day", "month", "year", "schedule", "period"}

var actionVerbs = []string{
	"click", "go", "select", "enter", "check", "visit",
	"navigate", "open", "login", "access", "find", "locate",
}

var kbAlignmentMarkers = []string{"based on", "knowledge base", "according to", "our", "from"}

// #endregion word-lists

// #region patterns

var (
	digitPattern = regexp.MustCompile(`\d`)
	// Two consecutive capitalized words, e.g. "Freedom Formula"
	properBigramPattern = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
	datePattern         = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b|\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
)

// #endregion patterns

// #region evaluate

// Evaluate scores an answer against its question and optional context.
// Pure function: equal inputs always produce equal outputs.
func Evaluate(question, answer, context string) Score {
	qLower := strings.ToLower(question)
	aLower := strings.ToLower(answer)

	s := Score{
		Relevance:    relevance(qLower, aLower),
		Completeness: completeness(answer, aLower),
		Clarity:      clarity(answer),
		KBAlignment:  kbAlignment(aLower, context),
	}
	s.Total = WeightRelevance*s.Relevance +
		WeightCompleteness*s.Completeness +
		WeightClarity*s.Clarity +
		WeightKBAlignment*s.KBAlignment
	return s
}

// #endregion evaluate

// #region relevance

// relevance starts from token overlap |Q∩A|/|Q| over length>2 tokens,
// then applies question-form penalties and a low-overlap penalty.
func relevance(qLower, aLower string) float64 {
	qTokens := contentTokens(qLower)
	if len(qTokens) == 0 {
		return 0
	}
	aSet := tokenSet(contentTokens(aLower))

	shared := 0
	for _, t := range qTokens {
		if aSet[t] {
			shared++
		}
	}
	overlap := float64(shared) / float64(len(qTokens))

	// Question-form penalties: a "how" question wants procedure, a "what"
	// question wants a definition, a "when" question wants a time.
	switch {
	case strings.Contains(qLower, "how") && !containsAny(aLower, howActionWords):
		overlap *= 0.6
	case strings.Contains(qLower, "what") && !containsAny(aLower, whatDefinitionWords):
		overlap *= 0.7
	case strings.Contains(qLower, "when") && !containsAny(aLower, whenTimeWords):
		overlap *= 0.7
	}

	if overlap < 0.40 {
		overlap *= 0.4
	}
	return clamp(overlap)
}

// #endregion relevance

// #region completeness

func completeness(answer, aLower string) float64 {
	n := sentenceCount(answer)

	sentenceScore := float64(n) / 3.0
	if sentenceScore > 1.0 {
		sentenceScore = 1.0
	}
	switch {
	case n == 1:
		sentenceScore *= 0.5
	case n == 2:
		sentenceScore *= 0.7
	case n > 6:
		sentenceScore *= 0.95
	}

	actionScore := 0.4
	if containsAny(aLower, actionVerbs) {
		actionScore = 0.95
	}

	specificsScore := 0.6
	if digitPattern.MatchString(answer) ||
		properBigramPattern.MatchString(answer) ||
		datePattern.MatchString(answer) {
		specificsScore = 0.9
	}

	return clamp(0.4*sentenceScore + 0.4*actionScore + 0.2*specificsScore)
}

// sentenceCount splits on sentence terminators and counts non-empty parts.
func sentenceCount(answer string) int {
	parts := strings.FieldsFunc(answer, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// #endregion completeness

// #region clarity

func clarity(answer string) float64 {
	score := 0.5
	if strings.Contains(answer, "\n") || strings.Contains(answer, "- ") ||
		strings.Contains(answer, "• ") || strings.Contains(answer, "* ") {
		score += 0.2
	}
	if strings.Contains(answer, "**") {
		score += 0.1
	}

	words := strings.Fields(answer)
	if len(words) > 0 {
		totalLen := 0
		for _, w := range words {
			totalLen += len(w)
		}
		if float64(totalLen)/float64(len(words)) > 6 {
			score *= 0.9
		}
	}
	if len(words) < 30 {
		score *= 0.8
	}
	return clamp(score)
}

// #endregion clarity

// #region kb-alignment

func kbAlignment(aLower, context string) float64 {
	if context == "" {
		return 0.5
	}
	if containsAny(aLower, kbAlignmentMarkers) {
		return 0.9
	}
	aTokens := contentTokens(aLower)
	if len(aTokens) == 0 {
		return 0.4
	}
	cSet := tokenSet(contentTokens(strings.ToLower(context)))
	shared := 0
	for _, t := range aTokens {
		if cSet[t] {
			shared++
		}
	}
	o := float64(shared) / float64(len(aTokens))
	return clamp(0.4 + 0.6*o)
}

// #endregion kb-alignment

// #region helpers

// contentTokens returns unique tokens of length > 2.
func contentTokens(lower string) []string {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}

// #endregion helpers
