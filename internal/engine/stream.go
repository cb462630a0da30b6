package engine

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creditoracademy/answer-engine/internal/llm"
	"github.com/creditoracademy/answer-engine/internal/normalize"
)

// #region resolve-stream

// ResolveStream answers one question as a stream of events. When the
// LLM layer is reached, text chunks arrive as the model produces them;
// answers from any other layer arrive as a single full-text chunk. The
// channel always ends with exactly one Final event and is then closed.
// Cancel the context to abandon the stream; text already yielded is the
// caller's responsibility.
func (e *Engine) ResolveStream(ctx context.Context, question string, opts Options) <-chan Event {
	ch := make(chan Event)
	go func() {
		defer close(ch)
		e.resolveStream(ctx, question, opts, ch)
	}()
	return ch
}

func (e *Engine) resolveStream(ctx context.Context, question string, opts Options, ch chan<- Event) {
	start := time.Now()
	q := normalize.Key(question)

	if rec, ok := e.cached(q, opts); ok {
		rec.LatencyMS = time.Since(start).Milliseconds()
		e.record(question, rec)
		emitWhole(ctx, ch, rec)
		return
	}

	if q == "" {
		e.finish(ctx, ch, question, q, e.fallbackRecord(question, ""), start, opts)
		return
	}

	var best *AnswerRecord
	var bestScore float64

	if opts.UseCurated {
		if rec := e.curated(q); rec != nil {
			if rec.Confidence >= curatedShortCircuit {
				e.finish(ctx, ch, question, q, *rec, start, opts)
				return
			}
			best, bestScore = rec, rec.Confidence
		}
	}

	var semContext string
	if opts.UseSemantic {
		valid, retained, topAnswer := e.semantic(ctx, q, opts.SemanticTopK)
		if valid != nil {
			e.finish(ctx, ch, question, q, *valid, start, opts)
			return
		}
		semContext = topAnswer
		if retained != nil && retained.Confidence > bestScore {
			best, bestScore = retained, retained.Confidence
		}
	}

	var llmErr string
	if e.llmUsable(opts) {
		rec, errKind := e.llmStream(ctx, q, question, semContext, opts, ch)
		if rec != nil {
			e.finish(ctx, ch, question, q, *rec, start, opts)
			return
		}
		llmErr = errKind
	}

	if best != nil && bestScore >= bestEffortFloor {
		best.Error = llmErr
		e.finish(ctx, ch, question, q, *best, start, opts)
		return
	}

	e.finish(ctx, ch, question, q, e.fallbackRecord(question, llmErr), start, opts)
}

// #endregion resolve-stream

// #region llm-stream

// llmStream runs the streaming LLM call, forwarding chunks as they
// arrive. A non-nil record means chunks are already on the wire and the
// stream must finalize with it; a non-empty error kind means nothing
// was yielded and the cascade may degrade normally. Mid-stream failures
// after the first chunk finalize with the partial text plus the error
// kind, so Final.Text always equals the concatenation of yielded
// chunks.
func (e *Engine) llmStream(ctx context.Context, q, original, semContext string, opts Options, ch chan<- Event) (*AnswerRecord, string) {
	prompt, system := buildPrompt(original, opts.ContextHint, semContext)
	stream, err := e.llm.CompleteStream(ctx, llm.Request{
		Prompt:      prompt,
		System:      system,
		Temperature: opts.LLMTemperature,
	})
	if err != nil {
		return nil, e.classify(err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			kind := e.classify(err)
			if sb.Len() == 0 {
				return nil, kind
			}
			return e.partialRecord(q, sb.String(), kind, opts), ""
		}
		sb.WriteString(chunk)
		if !emit(ctx, ch, Event{Chunk: chunk}) {
			return e.partialRecord(q, sb.String(), string(llm.ErrTimeout), opts), ""
		}
	}

	text := sb.String()
	if text == "" {
		return nil, string(llm.ErrParse)
	}

	// The text is already on the wire; the validator's verdict informs
	// confidence and provenance but cannot un-send anything.
	dec := e.validator.Validate(q, text, opts.ContextHint)
	confidence := dec.Confidence
	if !dec.Valid {
		log.Printf("[ENGINE] streamed llm answer rejected post-hoc: %s (total=%.2f)", dec.Reason, dec.Score.Total)
		confidence = dec.Score.Total
	}
	return &AnswerRecord{
		Text:       text,
		Layer:      LayerLLM,
		Method:     MethodLLM,
		Quality:    &dec.Score,
		Confidence: confidence,
	}, ""
}

// partialRecord wraps text cut short by a mid-stream failure.
func (e *Engine) partialRecord(q, text, kind string, opts Options) *AnswerRecord {
	log.Printf("[ENGINE] llm stream interrupted after partial text: %s", kind)
	dec := e.validator.Validate(q, text, opts.ContextHint)
	return &AnswerRecord{
		Text:       text,
		Layer:      LayerLLM,
		Method:     MethodLLM,
		Quality:    &dec.Score,
		Confidence: dec.Score.Total,
		Error:      kind,
	}
}

// #endregion llm-stream

// #region emit

// finish stamps provenance on a non-streamed record, emits its text as
// one chunk, then the final event.
func (e *Engine) finish(ctx context.Context, ch chan<- Event, question, q string, rec AnswerRecord, start time.Time, opts Options) {
	rec.ID = uuid.NewString()
	rec.LatencyMS = time.Since(start).Milliseconds()
	e.store(q, rec, opts)
	e.record(question, rec)

	// LLM records arrive here only from llmStream, whose chunks are
	// already on the wire.
	if rec.Layer == LayerLLM {
		emitFinal(ctx, ch, rec)
		return
	}
	emitWhole(ctx, ch, rec)
}

func emitWhole(ctx context.Context, ch chan<- Event, rec AnswerRecord) {
	if !emit(ctx, ch, Event{Chunk: rec.Text}) {
		return
	}
	emitFinal(ctx, ch, rec)
}

func emitFinal(ctx context.Context, ch chan<- Event, rec AnswerRecord) {
	emit(ctx, ch, Event{Final: &rec})
}

// emit sends one event unless the caller went away.
func emit(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// #endregion emit
