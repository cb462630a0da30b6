package kb

import (
	"path/filepath"
	"testing"
)

func TestNewStoreCanonicalizesKeys(t *testing.T) {
	s, err := NewStore([]Entry{
		{Key: "  What IS Creditor Academy  ", Answer: "An education platform.", Category: CategoryCreditorAcademy},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if e := s.GetExact("what is creditor academy"); e == nil {
		t.Fatal("expected canonicalized key lookup to hit")
	}
}

func TestNewStoreRejectsDuplicateKeys(t *testing.T) {
	_, err := NewStore([]Entry{
		{Key: "Hello", Answer: "a"},
		{Key: "hello ", Answer: "b"},
	})
	if err == nil {
		t.Fatal("expected duplicate canonical key error")
	}
}

func TestNewStoreRejectsEmptyAnswer(t *testing.T) {
	_, err := NewStore([]Entry{{Key: "hello", Answer: ""}})
	if err == nil {
		t.Fatal("expected empty answer error")
	}
}

func TestNewStoreRejectsUnknownCategory(t *testing.T) {
	_, err := NewStore([]Entry{{Key: "hello", Answer: "hi", Category: "finance"}})
	if err == nil {
		t.Fatal("expected unknown category error")
	}
}

func TestDefaultEntryAlwaysPresent(t *testing.T) {
	s, err := NewStore(nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	def := s.Default()
	if def == nil || def.Answer == "" {
		t.Fatal("default entry must exist with non-empty answer")
	}
	if s.GetExact(DefaultKey) != def {
		t.Fatal("GetExact(default) should return the default entry")
	}
}

func TestEntriesOrderStable(t *testing.T) {
	s, err := NewStore(Builtin())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	first := s.Entries()
	second := s.Entries()
	if len(first) != len(second) {
		t.Fatalf("entry count changed between iterations: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Fatalf("iteration order unstable at %d: %q vs %q", i, first[i].Key, second[i].Key)
		}
	}
	if s.Size() != len(first) {
		t.Fatalf("Size() = %d, want %d", s.Size(), len(first))
	}
}

func TestBuiltinLoads(t *testing.T) {
	s, err := NewStore(Builtin())
	if err != nil {
		t.Fatalf("builtin KB must load cleanly: %v", err)
	}
	e := s.GetExact("what is creditor academy")
	if e == nil {
		t.Fatal("builtin KB missing overview entry")
	}
	if e.Category != CategoryCreditorAcademy {
		t.Fatalf("overview entry category = %q", e.Category)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kb.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	n, err := Import(db, []Entry{
		{Key: "what is business credit", Answer: "Credit built under a company profile.", Category: CategoryBusiness, Tags: []string{"credit", "business"}},
		{Key: "hello", Answer: "Hello! Ask me about our courses.", Category: CategoryGeneral},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 2 {
		t.Fatalf("Import wrote %d rows, want 2", n)
	}

	s, err := LoadSQLite(db)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	e := s.GetExact("what is business credit")
	if e == nil {
		t.Fatal("expected imported entry to load")
	}
	if len(e.Tags) != 2 || e.Tags[0] != "credit" {
		t.Fatalf("tags round-trip failed: %v", e.Tags)
	}
}

func TestImportUpsert(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kb.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	if _, err := Import(db, []Entry{{Key: "hello", Answer: "v1"}}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := Import(db, []Entry{{Key: "hello", Answer: "v2, and longer than before."}}); err != nil {
		t.Fatalf("second import: %v", err)
	}

	s, err := LoadSQLite(db)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if got := s.GetExact("hello").Answer; got != "v2, and longer than before." {
		t.Fatalf("upsert did not replace answer, got %q", got)
	}
}
