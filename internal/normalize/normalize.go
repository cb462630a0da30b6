package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// #region folder

// folder performs full Unicode case folding, shared across calls.
// cases.Fold is safe for concurrent use.
var folder = cases.Fold()

// #endregion folder

// #region key

// Key canonicalizes free-form question text into a lookup key:
// NFKC normalization, Unicode case folding, trimmed edges, and interior
// whitespace runs collapsed to a single space. Punctuation is kept —
// matchers strip it per-call when they need to.
func Key(s string) string {
	folded := folder.String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}

// #endregion key
