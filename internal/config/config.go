// Package config loads the assistant's YAML configuration and applies
// environment overrides. Components never read the environment
// themselves; everything flows in through this struct.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/creditoracademy/answer-engine/internal/llm"
	"github.com/creditoracademy/answer-engine/internal/semantic"
)

// #region config-struct

// Config is the full assistant configuration.
type Config struct {
	LLM       llm.Config      `yaml:"llm"`
	Retriever semantic.Params `yaml:"retriever"`

	// Optional dense embedding service; empty endpoint means TF-IDF only.
	Embedding struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
	} `yaml:"embedding"`

	KB struct {
		// At most one of these; empty means the embedded curated set.
		SQLitePath string `yaml:"sqlite_path"`
		YAMLPath   string `yaml:"yaml_path"`
	} `yaml:"kb"`

	// Answer provenance log; empty disables persistence.
	AnswerLogPath string `yaml:"answer_log_path"`

	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.LLM = llm.DefaultConfig()
	c.Retriever = semantic.DefaultParams()
	c.CacheTTL = 5 * time.Minute
	return c
}

// #endregion config-struct

// #region load

// Load reads the YAML file at path (if it exists), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults + env only
		case err != nil:
			return c, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	c.applyEnv()
	return c, nil
}

// applyEnv lets deployment override the secrets and endpoints that
// never belong in a checked-in file.
func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("EMBEDDING_ENDPOINT"); v != "" {
		c.Embedding.Endpoint = v
	}
	if v := os.Getenv("KB_SQLITE_PATH"); v != "" {
		c.KB.SQLitePath = v
	}
	if v := os.Getenv("ANSWER_LOG_PATH"); v != "" {
		c.AnswerLogPath = v
	}
}

// #endregion load
