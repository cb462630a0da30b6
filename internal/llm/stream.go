package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// #region stream

// Stream yields completion text chunks in arrival order. Dropping the
// stream (calling Close) cancels the underlying request; text already
// received is the caller's responsibility.
type Stream struct {
	body   io.ReadCloser
	sc     *bufio.Scanner
	cancel context.CancelFunc
	done   bool
}

// maxEventSize caps a single SSE event line.
const maxEventSize = 4 * 1024 * 1024

// sseDelta is one streamed chat-completions event payload.
type sseDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// #endregion stream

// #region complete-stream

// CompleteStream opens a streaming completion. Connection-phase failures
// use the same classification and retry policy as Complete; mid-stream
// failures surface from Recv.
func (c *Client) CompleteStream(ctx context.Context, req Request) (*Stream, error) {
	if !c.Configured() {
		return nil, &ClassifiedError{Kind: ErrNotConfigured, Message: "no API key or base URL configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    c.buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	})
	if err != nil {
		cancel()
		return nil, &ClassifiedError{Kind: ErrParse, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	for attempt := 1; ; attempt++ {
		stream, cerr := c.openStream(ctx, body, cancel)
		if cerr == nil {
			return stream, nil
		}
		cerr.Attempts = attempt

		if !retryable(cerr.Kind) || attempt >= c.config.MaxRetries {
			cancel()
			return nil, cerr
		}
		if !sleepBackoff(ctx, c.config.BackoffBase*(1<<(attempt-1))) {
			cancel()
			return nil, &ClassifiedError{Kind: ErrTimeout, Message: "timed out during backoff", Attempts: attempt}
		}
	}
}

// openStream performs the streaming POST and classifies connection-phase
// failures.
func (c *Client) openStream(ctx context.Context, body []byte, cancel context.CancelFunc) (*Stream, *ClassifiedError) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	// The client-level timeout would cut long streams short; rely on the
	// request context instead.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &ClassifiedError{Kind: ErrTimeout, Message: "request deadline exceeded"}
		}
		return nil, &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("request: %v", err)}
	}

	if kind := classifyStatus(resp.StatusCode); kind != "" {
		msg := readErrorBody(resp.Body)
		resp.Body.Close()
		return nil, &ClassifiedError{Kind: kind, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, msg)}
	}

	sc := bufio.NewScanner(resp.Body)
	// A single data: event can exceed bufio's default 64 KiB line cap.
	sc.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &Stream{body: resp.Body, sc: sc, cancel: cancel}, nil
}

// #endregion complete-stream

// #region recv

// Recv returns the next non-empty text chunk. io.EOF signals a clean
// end of stream; any other error is a *ClassifiedError.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			s.close()
			return "", io.EOF
		}
		var delta sseDelta
		if err := json.Unmarshal([]byte(payload), &delta); err != nil {
			s.close()
			return "", &ClassifiedError{Kind: ErrParse, Message: fmt.Sprintf("decode stream event: %v", err)}
		}
		if len(delta.Choices) == 0 || delta.Choices[0].Delta.Content == "" {
			continue
		}
		return delta.Choices[0].Delta.Content, nil
	}

	err := s.sc.Err()
	s.close()
	if err != nil {
		return "", &ClassifiedError{Kind: ErrTransport, Message: fmt.Sprintf("stream read: %v", err)}
	}
	// Stream ended without a [DONE] terminator; treat as clean EOF.
	return "", io.EOF
}

// Close drops the stream and cancels the underlying request.
func (s *Stream) Close() {
	s.close()
}

func (s *Stream) close() {
	if s.done {
		return
	}
	s.done = true
	s.body.Close()
	s.cancel()
}

// #endregion recv

// #region backoff

// sleepBackoff waits for the delay or the context, whichever first.
// Returns false if the context expired.
func sleepBackoff(ctx context.Context, delay time.Duration) bool {
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// #endregion backoff
