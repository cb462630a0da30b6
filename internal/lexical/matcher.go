package lexical

import (
	"strings"

	"github.com/creditoracademy/answer-engine/internal/kb"
	"github.com/creditoracademy/answer-engine/internal/normalize"
)

// #region trigger-tokens

// categoryTriggers gates token-level partial matches: an entry may only
// token-match a question whose tokens overlap its category's trigger set.
// Keeps "trust" in a business question from matching an unrelated entry.
var categoryTriggers = map[kb.Category]map[string]bool{
	kb.CategoryCreditorAcademy: {
		"creditor": true, "academy": true, "sovereignty": true, "sovereign": true,
		"formula": true, "freedom": true, "trust": true, "course": true,
		"courses": true, "enroll": true, "enrollment": true, "module": true,
		"member": true, "status": true, "private": true,
	},
	kb.CategoryTechnology: {
		"password": true, "login": true, "account": true, "portal": true,
		"website": true, "app": true, "email": true, "reset": true,
		"technology": true, "software": true, "computer": true, "ai": true,
		"artificial": true, "intelligence": true,
	},
	kb.CategoryBusiness: {
		"business": true, "credit": true, "trust": true, "llc": true,
		"company": true, "funding": true, "tradeline": true, "tradelines": true,
		"entity": true, "lender": true, "lenders": true, "bureau": true,
	},
	kb.CategoryGeneral: {
		"hello": true, "hi": true, "hey": true, "thanks": true, "thank": true,
		"help": true, "hours": true, "support": true, "contact": true,
	},
}

// #endregion trigger-tokens

// #region confidences

const (
	confExact     = 0.99
	confSubstring = 0.95
	confToken     = 0.90

	// substring matches against very short keys are noise
	minSubstringKeyLen = 4
)

// Match methods reported in provenance.
const (
	MethodExact   = "exact_match"
	MethodPartial = "partial_match"
)

// #endregion confidences

// #region match

// Match is a curated-store hit with its confidence and method.
type Match struct {
	Entry      *kb.Entry
	Confidence float64
	Method     string
}

// Matcher performs exact, substring, and token-overlap lookup against
// the curated store.
type Matcher struct {
	store *kb.Store
}

// NewMatcher creates a Matcher over the given store.
func NewMatcher(store *kb.Store) *Matcher {
	return &Matcher{store: store}
}

// #endregion match

// #region lookup

// Lookup resolves a question against the curated store. Tie-break order:
// exact canonical match, then substring containment, then gated token
// overlap. Returns nil when nothing matches; never errors.
func (m *Matcher) Lookup(question string) *Match {
	q := normalize.Key(question)
	if q == "" {
		return nil
	}

	// Tier 1: exact
	if e := m.store.GetExact(q); e != nil {
		return &Match{Entry: e, Confidence: confExact, Method: MethodExact}
	}

	// Tier 2: substring containment either direction. The reserved
	// default key never partial-matches; it is reachable only by exact
	// lookup.
	for _, e := range m.store.Entries() {
		if e.Key == kb.DefaultKey || len(e.Key) < minSubstringKeyLen {
			continue
		}
		if strings.Contains(e.Key, q) || strings.Contains(q, e.Key) {
			return &Match{Entry: e, Confidence: confSubstring, Method: MethodPartial}
		}
	}

	// Tier 3: token overlap, gated by category triggers
	qTokens := TokenSet(q)
	for _, e := range m.store.Entries() {
		if e.Key == kb.DefaultKey {
			continue
		}
		if !triggersOverlap(e.Category, qTokens) {
			continue
		}
		for _, kt := range Tokenize(e.Key) {
			if len(kt) > 3 && qTokens[kt] {
				return &Match{Entry: e, Confidence: confToken, Method: MethodPartial}
			}
		}
	}

	return nil
}

// triggersOverlap reports whether any question token is in the
// category's trigger set.
func triggersOverlap(c kb.Category, qTokens map[string]bool) bool {
	triggers, ok := categoryTriggers[c]
	if !ok {
		return false
	}
	for t := range qTokens {
		if triggers[t] {
			return true
		}
	}
	return false
}

// #endregion lookup
