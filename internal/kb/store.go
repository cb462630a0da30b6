package kb

import (
	"fmt"

	"github.com/creditoracademy/answer-engine/internal/normalize"
)

// #region store-struct

// Store is the read-only curated knowledge base. Entries are keyed by
// canonical question text and never mutated after construction, so the
// store is safe for concurrent readers without locking.
type Store struct {
	byKey   map[string]*Entry
	ordered []*Entry // stable iteration order for one process lifetime
}

// #endregion store-struct

// #region constructor

// genericHelp is installed under DefaultKey when the source omits it.
const genericHelp = "I can help with questions about Creditor Academy, our courses, " +
	"business credit, and general topics. Try asking about the Freedom Formula, " +
	"sovereignty education, or how to get started — or contact support through " +
	"the member portal for anything account-specific."

// NewStore builds a Store from raw entries. Keys are canonicalized on
// load; duplicate canonical keys and empty answers are rejected. A
// "default" entry is synthesized if the source does not provide one.
func NewStore(entries []Entry) (*Store, error) {
	s := &Store{byKey: make(map[string]*Entry, len(entries)+1)}

	for i := range entries {
		e := entries[i]
		e.Key = normalize.Key(e.Key)
		if e.Key == "" {
			return nil, fmt.Errorf("kb: entry %d has empty question", i)
		}
		if e.Answer == "" {
			return nil, fmt.Errorf("kb: entry %q has empty answer", e.Key)
		}
		if e.Category == "" {
			e.Category = CategoryGeneral
		}
		if !KnownCategory(e.Category) {
			return nil, fmt.Errorf("kb: entry %q has unknown category %q", e.Key, e.Category)
		}
		if _, dup := s.byKey[e.Key]; dup {
			return nil, fmt.Errorf("kb: duplicate canonical key %q", e.Key)
		}
		s.byKey[e.Key] = &e
		s.ordered = append(s.ordered, &e)
	}

	if _, ok := s.byKey[DefaultKey]; !ok {
		def := &Entry{Key: DefaultKey, Answer: genericHelp, Category: CategoryGeneral}
		s.byKey[DefaultKey] = def
		s.ordered = append(s.ordered, def)
	}

	return s, nil
}

// #endregion constructor

// #region lookups

// GetExact returns the entry for a canonical key, or nil.
func (s *Store) GetExact(key string) *Entry {
	return s.byKey[key]
}

// Default returns the reserved generic-help entry.
func (s *Store) Default() *Entry {
	return s.byKey[DefaultKey]
}

// Entries returns the entries in load order. Callers must not mutate.
func (s *Store) Entries() []*Entry {
	return s.ordered
}

// Size returns the number of entries, including the default.
func (s *Store) Size() int {
	return len(s.ordered)
}

// #endregion lookups
