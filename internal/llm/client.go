package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// #region client

// Client is the remote-LLM adapter: one chat-completions endpoint,
// bounded retries with exponential backoff, and a classified error
// taxonomy. Stateless per call; safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates an adapter from explicit configuration.
func NewClient(config Config) *Client {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultConfig().MaxRetries
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.BackoffBase <= 0 {
		config.BackoffBase = DefaultConfig().BackoffBase
	}
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = DefaultConfig().HistoryWindow
	}
	return &Client{
		config: config,
		// Per-attempt transport limit; the overall wall clock is enforced
		// by the context in Complete.
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Configured reports whether the adapter has enough configuration to be
// contacted at all.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.config.BaseURL) != "" && strings.TrimSpace(c.config.APIKey) != ""
}

// #endregion client

// #region wire

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// buildMessages assembles system prompt, trimmed history window, and the
// user prompt in order.
func (c *Client) buildMessages(req Request) []Message {
	history := req.History
	if len(history) > c.config.HistoryWindow {
		history = history[len(history)-c.config.HistoryWindow:]
	}

	msgs := make([]Message, 0, len(history)+2)
	if req.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: "user", Content: req.Prompt})
	return msgs
}

// #endregion wire

// #region complete

// Complete performs one chat completion with the configured retry
// policy. Errors are always *ClassifiedError.
func (c *Client) Complete(ctx context.Context, req Request) (Result, error) {
	if !c.Configured() {
		return Result{}, &ClassifiedError{Kind: ErrNotConfigured, Message: "no API key or base URL configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    c.buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return Result{}, &ClassifiedError{Kind: ErrParse, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	for attempt := 1; ; attempt++ {
		result, cerr := c.once(ctx, body)
		if cerr == nil {
			return result, nil
		}
		cerr.Attempts = attempt

		if !retryable(cerr.Kind) || attempt >= c.config.MaxRetries {
			return Result{}, cerr
		}

		delay := c.config.BackoffBase * (1 << (attempt - 1))
		log.Printf("[LLM] attempt %d failed (%s), backing off %s", attempt, cerr.Kind, delay)
		if !sleepBackoff(ctx, delay) {
			return Result{}, &ClassifiedError{
				Kind:     ErrTimeout,
				Message:  fmt.Sprintf("timed out during backoff after %s", cerr.Kind),
				Attempts: attempt,
			}
		}
	}
}

// once performs a single HTTP round trip and classifies the outcome.
func (c *Client) once(ctx context.Context, body []byte) (Result, *ClassifiedError) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, &ClassifiedError{Kind: ErrTimeout, Message: "request deadline exceeded"}
		}
		return Result{}, &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("request: %v", err)}
	}
	defer resp.Body.Close()

	if kind := classifyStatus(resp.StatusCode); kind != "" {
		msg := readErrorBody(resp.Body)
		return Result{}, &ClassifiedError{Kind: kind, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, msg)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("read response: %v", err)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, &ClassifiedError{Kind: ErrParse, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return Result{}, &ClassifiedError{Kind: ErrParse, Message: "response has no choices"}
	}

	return Result{
		Text:       parsed.Choices[0].Message.Content,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}

// #endregion complete

// #region classify

// classifyStatus maps an HTTP status to an error kind. Returns "" for
// success statuses.
func classifyStatus(status int) ErrorKind {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusUnauthorized:
		return ErrAuth
	case status == http.StatusTooManyRequests:
		return ErrRateLimit
	case status >= 500:
		return ErrServer
	default:
		return ErrHTTP
	}
}

// retryable reports whether the retry loop may attempt again.
func retryable(kind ErrorKind) bool {
	switch kind {
	case ErrRateLimit, ErrServer, ErrTransport:
		return true
	}
	return false
}

// readErrorBody extracts a short diagnostic from an error response.
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return "no body"
	}
	return strings.TrimSpace(string(b))
}

// #endregion classify
