// retriever-validate measures retriever self-recall over the curated
// set, for regression checks after changing retriever parameters or the
// embedding model.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/creditoracademy/answer-engine/internal/config"
	"github.com/creditoracademy/answer-engine/internal/kb"
	"github.com/creditoracademy/answer-engine/internal/semantic"
)

// #region main
func main() {
	configPath := flag.String("config", "assistant.yaml", "config file path")
	sampleSize := flag.Int("sample", 50, "number of entries to sample")
	topK := flag.Int("top-k", 5, "candidates per query")
	asJSON := flag.Bool("json", false, "emit metrics as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := loadStore(cfg)
	if err != nil {
		log.Fatalf("failed to load curated store: %v", err)
	}

	var embedder semantic.Embedder
	if cfg.Embedding.Endpoint != "" {
		ec, err := semantic.NewEmbedClient(cfg.Embedding.Endpoint, cfg.Embedding.Model)
		if err != nil {
			log.Fatalf("failed to create embed client: %v", err)
		}
		embedder = ec
	}
	retriever := semantic.NewRetriever(store, embedder, cfg.Retriever)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	recall := retriever.Validate(ctx, *sampleSize, *topK)

	if *asJSON {
		json.NewEncoder(os.Stdout).Encode(recall)
		return
	}
	fmt.Printf("entries=%d sample=%d\n", store.Size(), recall.SampleSize)
	fmt.Printf("recall@1=%.3f recall@3=%.3f recall@5=%.3f\n", recall.At1, recall.At3, recall.At5)
	if recall.At1 < 0.95 {
		fmt.Println("WARNING: recall@1 below the 0.95 regression target")
		os.Exit(1)
	}
}

// #endregion main

// #region helpers

func loadStore(cfg config.Config) (*kb.Store, error) {
	switch {
	case cfg.KB.SQLitePath != "":
		db, err := kb.OpenDB(cfg.KB.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return kb.LoadSQLite(db)
	case cfg.KB.YAMLPath != "":
		entries, err := kb.LoadYAMLFile(cfg.KB.YAMLPath)
		if err != nil {
			return nil, err
		}
		return kb.NewStore(entries)
	default:
		return kb.NewStore(kb.Builtin())
	}
}

// #endregion helpers
