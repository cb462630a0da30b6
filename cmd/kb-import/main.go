// kb-import loads curated Q&A entries from a YAML file into the SQLite
// curated store, upserting by canonical key.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/creditoracademy/answer-engine/internal/kb"
)

// #region main
func main() {
	yamlPath := flag.String("yaml", "", "YAML file with curated entries")
	dbPath := flag.String("db", "curated.db", "SQLite database path")
	seed := flag.Bool("seed", false, "import the embedded curated set instead of a file")
	flag.Parse()

	if *yamlPath == "" && !*seed {
		log.Fatal("either -yaml or -seed is required")
	}

	var entries []kb.Entry
	var err error
	if *seed {
		entries = kb.Builtin()
	} else {
		entries, err = kb.LoadYAMLFile(*yamlPath)
		if err != nil {
			log.Fatalf("failed to load yaml: %v", err)
		}
	}

	// Validate before touching the database: NewStore rejects duplicate
	// keys, empty answers, and unknown categories.
	if _, err := kb.NewStore(entries); err != nil {
		log.Fatalf("invalid curated set: %v", err)
	}

	db, err := kb.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	n, err := kb.Import(db, entries)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	fmt.Printf("imported %d entries into %s\n", n, *dbPath)
}

// #endregion main
