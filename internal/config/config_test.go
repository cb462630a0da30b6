package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if c.Retriever.TopKDefault != 5 {
		t.Errorf("top_k_default = %d, want 5", c.Retriever.TopKDefault)
	}
	if c.LLM.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want 3", c.LLM.MaxRetries)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("cache_ttl = %s, want 5m", c.CacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	content := `
llm:
  base_url: https://api.example.com/v1
  model: gpt-test
  max_retries: 5
retriever:
  top_k_default: 3
  similarity_threshold: 0.1
kb:
  yaml_path: kb.yaml
cache_ttl: 1m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LLM.BaseURL != "https://api.example.com/v1" || c.LLM.Model != "gpt-test" {
		t.Errorf("llm config not loaded: %+v", c.LLM)
	}
	if c.LLM.MaxRetries != 5 {
		t.Errorf("max_retries = %d, want 5", c.LLM.MaxRetries)
	}
	if c.Retriever.TopKDefault != 3 || c.Retriever.SimilarityThreshold != 0.1 {
		t.Errorf("retriever params not loaded: %+v", c.Retriever)
	}
	if c.KB.YAMLPath != "kb.yaml" {
		t.Errorf("kb yaml_path = %q", c.KB.YAMLPath)
	}
	if c.CacheTTL != time.Minute {
		t.Errorf("cache_ttl = %s, want 1m", c.CacheTTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "env-secret")
	t.Setenv("LLM_BASE_URL", "https://env.example.com")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LLM.APIKey != "env-secret" {
		t.Errorf("api key override not applied")
	}
	if c.LLM.BaseURL != "https://env.example.com" {
		t.Errorf("base url override not applied")
	}
}
