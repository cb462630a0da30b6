package engine

import (
	"time"

	"github.com/creditoracademy/answer-engine/internal/quality"
)

// #region layer

// Layer names one stage of the answer-resolution cascade.
type Layer string

const (
	LayerCurated  Layer = "CURATED"
	LayerSemantic Layer = "SEMANTIC"
	LayerLLM      Layer = "LLM"
	LayerFallback Layer = "FALLBACK"
)

// Provenance method strings not owned by a lower layer.
const (
	MethodSemantic = "semantic-topk"
	MethodLLM      = "llm-complete"
	MethodCache    = "cache"
)

// #endregion layer

// #region answer-record

// AnswerRecord is the full result of one resolve call: the answer text
// plus provenance describing how it was produced.
type AnswerRecord struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	Layer          Layer          `json:"layer"`
	Method         string         `json:"method"`
	Confidence     float64        `json:"confidence"`
	Quality        *quality.Score `json:"quality,omitempty"`
	SourceID       string         `json:"source_id,omitempty"`
	LatencyMS      int64          `json:"latency_ms"`
	TokensConsumed int            `json:"tokens_consumed,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// #endregion answer-record

// #region options

// Options control which layers a resolve call may use.
type Options struct {
	UseCurated     bool
	UseSemantic    bool
	UseLLM         bool
	UseCache       bool
	SemanticTopK   int
	LLMTemperature float64
	ContextHint    string
}

// DefaultOptions enables every layer with production parameters.
func DefaultOptions() Options {
	return Options{
		UseCurated:     true,
		UseSemantic:    true,
		UseLLM:         true,
		UseCache:       true,
		SemanticTopK:   5,
		LLMTemperature: 0.3,
	}
}

// #endregion options

// #region stream-event

// Event is one item yielded by ResolveStream: either a text chunk or
// the terminal record. Exactly one event carries Final.
type Event struct {
	Chunk string
	Final *AnswerRecord
}

// #endregion stream-event

// #region config

// Config holds engine-level knobs.
type Config struct {
	CacheTTL time.Duration
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() Config {
	return Config{CacheTTL: 5 * time.Minute}
}

// #endregion config
