// Package engine runs the layered answer cascade: curated lookup,
// semantic retrieval, remote LLM, contextual fallback. Each resolve
// call walks the layers in order and returns the first answer that
// passes validation, with full provenance.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	gocache "github.com/patrickmn/go-cache"

	"github.com/creditoracademy/answer-engine/internal/fallback"
	"github.com/creditoracademy/answer-engine/internal/gate"
	"github.com/creditoracademy/answer-engine/internal/kb"
	"github.com/creditoracademy/answer-engine/internal/lexical"
	"github.com/creditoracademy/answer-engine/internal/llm"
	"github.com/creditoracademy/answer-engine/internal/logging"
	"github.com/creditoracademy/answer-engine/internal/normalize"
	"github.com/creditoracademy/answer-engine/internal/quality"
	"github.com/creditoracademy/answer-engine/internal/semantic"
)

// #region thresholds

const (
	// curated hits at or above this confidence short-circuit immediately
	curatedShortCircuit = 0.95

	// a retained best-effort answer below this is worse than fallback
	bestEffortFloor = 0.60
)

// #endregion thresholds

// #region engine-struct

// Engine is the top-level coordinator. Stateless per call except for
// the answer cache and the sticky auth-failure flag; safe for
// concurrent use.
type Engine struct {
	matcher   *lexical.Matcher
	retriever *semantic.Retriever
	llm       *llm.Client
	validator *gate.Validator
	fallback  *fallback.Responder
	cache     *gocache.Cache
	logDB     *sqlx.DB
	config    Config

	// set on the first LLM_AUTH failure; the adapter is never contacted
	// again for the lifetime of the process
	authFailed atomic.Bool
}

// NewEngine creates a fully wired engine. logDB may be nil to disable
// provenance persistence; llmClient may be nil or unconfigured to
// disable the LLM layer.
func NewEngine(store *kb.Store, retriever *semantic.Retriever, llmClient *llm.Client, logDB *sqlx.DB, config Config) *Engine {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultEngineConfig().CacheTTL
	}
	return &Engine{
		matcher:   lexical.NewMatcher(store),
		retriever: retriever,
		llm:       llmClient,
		validator: gate.NewValidator(gate.DefaultConfig()),
		fallback:  fallback.NewResponder(),
		cache:     gocache.New(config.CacheTTL, 2*config.CacheTTL),
		logDB:     logDB,
		config:    config,
	}
}

// #endregion engine-struct

// #region resolve

// Resolve answers one question. Never returns an error: degradation is
// recorded in the AnswerRecord's provenance fields instead.
func (e *Engine) Resolve(ctx context.Context, question string, opts Options) AnswerRecord {
	start := time.Now()
	q := normalize.Key(question)

	if rec, ok := e.cached(q, opts); ok {
		rec.LatencyMS = time.Since(start).Milliseconds()
		e.record(question, rec)
		return rec
	}

	rec := e.cascade(ctx, q, question, opts)
	rec.ID = uuid.NewString()
	rec.LatencyMS = time.Since(start).Milliseconds()

	e.store(q, rec, opts)
	e.record(question, rec)
	return rec
}

// cascade walks the layers in strict order. q is the canonical key,
// original the verbatim question (used for LLM prompts and fallback).
func (e *Engine) cascade(ctx context.Context, q, original string, opts Options) AnswerRecord {
	// Blank input goes straight to fallback; there is nothing to match
	// and no prompt worth paying tokens for.
	if q == "" {
		return e.fallbackRecord(original, "")
	}

	var best *AnswerRecord
	var bestScore float64

	// Layer CURATED
	if opts.UseCurated {
		if rec := e.curated(q); rec != nil {
			if rec.Confidence >= curatedShortCircuit {
				return *rec
			}
			best, bestScore = rec, rec.Confidence
			log.Printf("[ENGINE] curated hit below short-circuit (%.2f), retained", rec.Confidence)
		}
	}

	// Layer SEMANTIC
	var semContext string
	if opts.UseSemantic {
		valid, retained, topAnswer := e.semantic(ctx, q, opts.SemanticTopK)
		if valid != nil {
			return *valid
		}
		semContext = topAnswer
		if retained != nil && retained.Confidence > bestScore {
			best, bestScore = retained, retained.Confidence
		}
	}

	// Layer LLM
	var llmErr string
	if e.llmUsable(opts) {
		valid, retained, errKind := e.llmComplete(ctx, q, original, semContext, opts)
		if valid != nil {
			return *valid
		}
		llmErr = errKind
		if retained != nil && retained.Confidence > bestScore {
			best, bestScore = retained, retained.Confidence
		}
	}

	// Best-effort: a retained answer beats the generic fallback as long
	// as it carries real signal.
	if best != nil && bestScore >= bestEffortFloor {
		best.Error = llmErr
		return *best
	}

	return e.fallbackRecord(original, llmErr)
}

// #endregion resolve

// #region layers

// curated runs the lexical matcher and wraps a hit as an AnswerRecord.
func (e *Engine) curated(q string) *AnswerRecord {
	hit := e.matcher.Lookup(q)
	if hit == nil {
		return nil
	}
	return &AnswerRecord{
		Text:       hit.Entry.Answer,
		Layer:      LayerCurated,
		Method:     hit.Method,
		Confidence: hit.Confidence,
		SourceID:   hit.Entry.Key,
	}
}

// semantic retrieves candidates and validates the top one. Returns the
// validated record (or nil), a retained best-effort record (or nil),
// and the top candidate's answer text for LLM prompt context.
func (e *Engine) semantic(ctx context.Context, q string, topK int) (valid, retained *AnswerRecord, topAnswer string) {
	cands := e.retriever.Retrieve(ctx, q, topK)
	if len(cands) == 0 {
		return nil, nil, ""
	}

	top := cands[0]
	dec := e.validator.Validate(q, top.AnswerText, top.QuestionText)
	if dec.Valid {
		return &AnswerRecord{
			Text:       top.AnswerText,
			Layer:      LayerSemantic,
			Method:     MethodSemantic,
			Quality:    &dec.Score,
			SourceID:   top.SourceKey,
			Confidence: dec.Confidence,
		}, nil, top.AnswerText
	}
	log.Printf("[ENGINE] semantic candidate rejected: %s (total=%.2f)", dec.Reason, dec.Score.Total)

	// The retained slot goes to the best candidate by quality score,
	// which is not necessarily the most similar one.
	bestCand := top
	bestScore := dec.Score
	for _, c := range cands[1:] {
		s := quality.Evaluate(q, c.AnswerText, c.QuestionText)
		if s.Total > bestScore.Total {
			bestCand, bestScore = c, s
		}
	}
	retained = &AnswerRecord{
		Text:       bestCand.AnswerText,
		Layer:      LayerSemantic,
		Method:     MethodSemantic,
		Quality:    &bestScore,
		SourceID:   bestCand.SourceKey,
		Confidence: bestScore.Total,
	}
	return nil, retained, top.AnswerText
}

// llmUsable reports whether the LLM layer may run at all.
func (e *Engine) llmUsable(opts Options) bool {
	return opts.UseLLM && e.llm != nil && e.llm.Configured() && !e.authFailed.Load()
}

// llmComplete calls the adapter and validates its answer. Classified
// errors are returned as a kind string, never raised.
func (e *Engine) llmComplete(ctx context.Context, q, original, semContext string, opts Options) (valid, retained *AnswerRecord, errKind string) {
	prompt, system := buildPrompt(original, opts.ContextHint, semContext)
	res, err := e.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		System:      system,
		Temperature: opts.LLMTemperature,
	})
	if err != nil {
		return nil, nil, e.classify(err)
	}

	dec := e.validator.Validate(q, res.Text, opts.ContextHint)
	rec := AnswerRecord{
		Text:           res.Text,
		Layer:          LayerLLM,
		Method:         MethodLLM,
		Quality:        &dec.Score,
		Confidence:     dec.Confidence,
		TokensConsumed: res.TokensUsed,
	}
	if dec.Valid {
		return &rec, nil, ""
	}

	log.Printf("[ENGINE] llm answer rejected: %s (total=%.2f)", dec.Reason, dec.Score.Total)
	rec.Confidence = dec.Score.Total
	return nil, &rec, ""
}

// classify extracts the error kind and latches auth failures.
func (e *Engine) classify(err error) string {
	var ce *llm.ClassifiedError
	if !errors.As(err, &ce) {
		return string(llm.ErrTransport)
	}
	log.Printf("[ENGINE] llm error: %v", ce)
	if ce.Kind == llm.ErrAuth {
		e.authFailed.Store(true)
	}
	return string(ce.Kind)
}

// fallbackRecord emits the contextual fallback at fixed confidence.
func (e *Engine) fallbackRecord(original, llmErr string) AnswerRecord {
	text, topic := e.fallback.Respond(original)
	return AnswerRecord{
		Text:       text,
		Layer:      LayerFallback,
		Method:     fallback.Method,
		Confidence: fallback.Confidence,
		SourceID:   topic,
		Error:      llmErr,
	}
}

// buildPrompt assembles the LLM prompt. The context hint wins over the
// best semantic candidate's answer when both are present.
func buildPrompt(question, contextHint, semContext string) (prompt, system string) {
	_, system = llm.SelectSystemPrompt(question)

	ctxText := contextHint
	if ctxText == "" {
		ctxText = semContext
	}
	if ctxText == "" {
		return question, system
	}
	return "Use the following background from our knowledge base if relevant:\n\n" +
		ctxText + "\n\nQuestion: " + question, system
}

// #endregion layers

// #region cache

// cached returns a fresh copy of a cached record for the canonical key.
func (e *Engine) cached(q string, opts Options) (AnswerRecord, bool) {
	if !opts.UseCache || q == "" {
		return AnswerRecord{}, false
	}
	v, ok := e.cache.Get(q)
	if !ok {
		return AnswerRecord{}, false
	}
	rec := v.(AnswerRecord)
	rec.Method = MethodCache
	return rec, true
}

// store caches a validated non-fallback answer under the canonical key.
func (e *Engine) store(q string, rec AnswerRecord, opts Options) {
	if !opts.UseCache || q == "" || rec.Error != "" || rec.Layer == LayerFallback {
		return
	}
	e.cache.Set(q, rec, gocache.DefaultExpiration)
}

// #endregion cache

// #region provenance

// record logs provenance to stderr and, when configured, to SQLite.
func (e *Engine) record(question string, rec AnswerRecord) {
	log.Printf("[ENGINE] layer=%s method=%s confidence=%.2f latency=%dms",
		rec.Layer, rec.Method, rec.Confidence, rec.LatencyMS)

	if e.logDB == nil {
		return
	}
	var qualityJSON string
	if rec.Quality != nil {
		if b, err := json.Marshal(rec.Quality); err == nil {
			qualityJSON = string(b)
		}
	}
	err := logging.LogAnswer(e.logDB, logging.AnswerEntry{
		AnswerID:       rec.ID,
		Question:       question,
		AnswerText:     rec.Text,
		Layer:          string(rec.Layer),
		Method:         rec.Method,
		Confidence:     rec.Confidence,
		QualityJSON:    qualityJSON,
		SourceID:       rec.SourceID,
		LatencyMS:      rec.LatencyMS,
		TokensConsumed: int64(rec.TokensConsumed),
		ErrorKind:      rec.Error,
	})
	if err != nil {
		log.Printf("[ENGINE] answer log failed: %v", err)
	}
}

// #endregion provenance
