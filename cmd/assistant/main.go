package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/creditoracademy/answer-engine/internal/config"
	"github.com/creditoracademy/answer-engine/internal/engine"
	"github.com/creditoracademy/answer-engine/internal/kb"
	"github.com/creditoracademy/answer-engine/internal/llm"
	"github.com/creditoracademy/answer-engine/internal/logging"
	"github.com/creditoracademy/answer-engine/internal/semantic"
)

// #region main
func main() {
	configPath := flag.String("config", envOr("ASSISTANT_CONFIG", "assistant.yaml"), "config file path")
	stream := flag.Bool("stream", false, "stream LLM answers as they arrive")
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

	var logDB *sqlx.DB
	if cfg.AnswerLogPath != "" {
		logDB, err = kb.OpenDB(cfg.AnswerLogPath)
		if err != nil {
			log.Fatalf("failed to open answer log: %v", err)
		}
		defer logDB.Close()
		if err := logging.EnsureSchema(logDB); err != nil {
			log.Fatalf("failed to prepare answer log: %v", err)
		}
	}

	eng := engine.NewEngine(store, retriever, llm.NewClient(cfg.LLM),
		logDB, engine.Config{CacheTTL: cfg.CacheTTL})

	fmt.Println("Creditor Academy assistant ready.")
	fmt.Printf("  KB entries: %d | LLM: %s\n", store.Size(), llmStatus(cfg.LLM))
	fmt.Println("Type a question (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}

		if *stream {
			answerStreaming(eng, question)
		} else {
			answer(eng, question)
		}
	}
}

// #endregion main

// #region answer

func answer(eng *engine.Engine, question string) {
	rec := eng.Resolve(context.Background(), question, engine.DefaultOptions())
	fmt.Printf("\n%s\n\n", rec.Text)
	fmt.Printf("[%s] layer=%s method=%s confidence=%.2f latency=%dms\n",
		rec.ID, rec.Layer, rec.Method, rec.Confidence, rec.LatencyMS)
}

func answerStreaming(eng *engine.Engine, question string) {
	fmt.Println()
	for ev := range eng.ResolveStream(context.Background(), question, engine.DefaultOptions()) {
		if ev.Final != nil {
			fmt.Printf("\n\n[%s] layer=%s method=%s confidence=%.2f latency=%dms\n",
				ev.Final.ID, ev.Final.Layer, ev.Final.Method, ev.Final.Confidence, ev.Final.LatencyMS)
			continue
		}
		fmt.Print(ev.Chunk)
	}
}

// #endregion answer

// #region helpers

// loadStore picks the curated source: SQLite, then YAML, then the
// embedded set.
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

func llmStatus(cfg llm.Config) string {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return "disabled"
	}
	return cfg.Model
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
