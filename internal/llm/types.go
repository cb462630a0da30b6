package llm

import (
	"fmt"
	"time"
)

// #region error-kind

// ErrorKind classifies adapter failures for the pipeline.
type ErrorKind string

const (
	ErrAuth          ErrorKind = "LLM_AUTH"
	ErrRateLimit     ErrorKind = "LLM_RATE_LIMIT"
	ErrServer        ErrorKind = "LLM_SERVER"
	ErrTransport     ErrorKind = "LLM_TRANSPORT"
	ErrTimeout       ErrorKind = "LLM_TIMEOUT"
	ErrHTTP          ErrorKind = "LLM_HTTP"
	ErrParse         ErrorKind = "LLM_PARSE"
	ErrNotConfigured ErrorKind = "LLM_NOT_CONFIGURED"
)

// ClassifiedError is the adapter's only error type. The pipeline reads
// Kind to decide degradation; Attempts records how many requests were
// made before giving up.
type ClassifiedError struct {
	Kind     ErrorKind
	Message  string
	Attempts int
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %s (attempts=%d)", e.Kind, e.Message, e.Attempts)
}

// #endregion error-kind

// #region config

// Config holds the adapter's connection and retry parameters. Values
// come from the caller (constructor injection); the adapter never reads
// the process environment itself.
type Config struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"`
	MaxRetries    int           `yaml:"max_retries"`
	Timeout       time.Duration `yaml:"timeout"`
	BackoffBase   time.Duration `yaml:"backoff_base"`
	HistoryWindow int           `yaml:"history_window"`
}

// DefaultConfig returns production defaults; BaseURL, APIKey and Model
// must still be filled in by the caller.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		Timeout:       60 * time.Second,
		BackoffBase:   1 * time.Second,
		HistoryWindow: 6,
	}
}

// #endregion config

// #region messages

// Message is one chat turn on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call. History is the caller-owned
// sliding window of prior turns; the adapter trims it to HistoryWindow.
type Request struct {
	Prompt      string
	System      string
	History     []Message
	MaxTokens   int
	Temperature float64
}

// Result is a successful completion.
type Result struct {
	Text       string
	TokensUsed int
}

// #endregion messages
