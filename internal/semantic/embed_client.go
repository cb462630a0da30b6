package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

// #region client

// EmbedClient calls an HTTP embedding service that maps texts to dense
// vectors. Vectors are L2-normalized on receipt so cosine similarity
// reduces to a dot product.
type EmbedClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewEmbedClient creates an embedding client. endpoint must be non-empty;
// model may be empty if the service has a default.
func NewEmbedClient(endpoint, model string) (*EmbedClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("embedding endpoint is empty")
	}
	return &EmbedClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// #endregion client

// #region wire

type embedRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// #endregion wire

// #region embed

// Embed returns one unit-norm vector per input text.
func (c *EmbedClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Texts: texts, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embed request failed: status=%d", resp.StatusCode)
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(er.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed response has %d vectors for %d texts", len(er.Embeddings), len(texts))
	}

	for i := range er.Embeddings {
		normalizeL2(er.Embeddings[i])
	}
	return er.Embeddings, nil
}

// normalizeL2 scales v to unit norm in place. Zero vectors are left as-is.
func normalizeL2(v []float64) {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range v {
		v[i] /= norm
	}
}

// #endregion embed
