package semantic

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/creditoracademy/answer-engine/internal/kb"
)

func builtinStore(t *testing.T) *kb.Store {
	t.Helper()
	s, err := kb.NewStore(kb.Builtin())
	if err != nil {
		t.Fatalf("builtin store: %v", err)
	}
	return s
}

func TestRetrieveTFIDFSelfQuery(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	results := r.Retrieve(context.Background(), "what is the freedom formula", 5)
	if len(results) == 0 {
		t.Fatal("expected candidates for an indexed question")
	}
	if results[0].SourceKey != "what is the freedom formula" {
		t.Fatalf("top candidate = %q, want the entry's own key", results[0].SourceKey)
	}
	if results[0].Similarity < 0.99 {
		t.Fatalf("self-similarity = %.4f, want ~1.0", results[0].Similarity)
	}
}

func TestRetrieveSortedDescendingAndCapped(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	results := r.Retrieve(context.Background(), "what is business credit", 3)
	if len(results) > 3 {
		t.Fatalf("topK=3 returned %d results", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Fatalf("results not sorted descending at %d", i)
		}
	}
}

func TestRetrieveDropsBelowThreshold(t *testing.T) {
	params := DefaultParams()
	params.SimilarityThreshold = 0.99
	r := NewRetriever(builtinStore(t), nil, params)
	results := r.Retrieve(context.Background(), "what is business credit", 5)
	for _, c := range results {
		if c.Similarity < 0.99 {
			t.Fatalf("candidate %q below threshold: %.4f", c.SourceKey, c.Similarity)
		}
	}
}

func TestRetrieveNonsenseReturnsNothing(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	results := r.Retrieve(context.Background(), "qqqq zzzz xxxx", 5)
	if len(results) != 0 {
		t.Fatalf("out-of-vocabulary query returned %d candidates", len(results))
	}
}

func TestRetrieveEmptyStore(t *testing.T) {
	s, err := kb.NewStore(nil) // only the default entry, which is not indexed
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	r := NewRetriever(s, nil, DefaultParams())
	if results := r.Retrieve(context.Background(), "anything", 5); len(results) != 0 {
		t.Fatalf("empty index returned %d candidates", len(results))
	}
}

func TestRetrieveDefaultTopK(t *testing.T) {
	params := DefaultParams()
	params.SimilarityThreshold = 0 // keep everything
	r := NewRetriever(builtinStore(t), nil, params)
	results := r.Retrieve(context.Background(), "what is a course about credit and trust", 0)
	if len(results) > params.TopKDefault {
		t.Fatalf("topK<=0 should use default %d, got %d", params.TopKDefault, len(results))
	}
}

func TestUpdateParamsRebuildsOnVocabChange(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	r.Retrieve(context.Background(), "hello", 5) // force build
	if r.idx.Load() == nil {
		t.Fatal("index should be built after first query")
	}

	p := r.GetParams()
	p.TFIDFMaxFeatures = 50
	r.UpdateParams(p)
	if r.idx.Load() != nil {
		t.Fatal("vocab-affecting change must invalidate the index")
	}

	// Rebuild happens lazily and still answers.
	if res := r.Retrieve(context.Background(), "what is the freedom formula", 5); len(res) == 0 {
		t.Fatal("expected results after rebuild")
	}
}

func TestUpdateParamsThresholdOnlyKeepsIndex(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	r.Retrieve(context.Background(), "hello", 5)
	before := r.idx.Load()

	p := r.GetParams()
	p.SimilarityThreshold = 0.2
	r.UpdateParams(p)
	if r.idx.Load() != before {
		t.Fatal("threshold change must not rebuild the index")
	}
}

// unitEmbedder maps each distinct text to a distinct one-hot vector, so
// identical texts are maximally similar and distinct texts orthogonal.
type unitEmbedder struct {
	mu   sync.Mutex
	dims map[string]int
}

func (u *unitEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.dims == nil {
		u.dims = make(map[string]int)
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if _, ok := u.dims[t]; !ok {
			u.dims[t] = len(u.dims)
		}
		v := make([]float64, 64)
		v[u.dims[t]%64] = 1
		out[i] = v
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, []string) ([][]float64, error) {
	return nil, fmt.Errorf("embedding service down")
}

func TestRetrieveDenseEncoder(t *testing.T) {
	r := NewRetriever(builtinStore(t), &unitEmbedder{}, DefaultParams())
	results := r.Retrieve(context.Background(), "what is creditor academy", 5)
	if len(results) == 0 {
		t.Fatal("expected dense results")
	}
	if results[0].SourceKey != "what is creditor academy" {
		t.Fatalf("top dense candidate = %q", results[0].SourceKey)
	}
	if results[0].Similarity < 0.99 {
		t.Fatalf("dense self-similarity = %.4f", results[0].Similarity)
	}
}

func TestBuildFallsBackToTFIDFWhenEmbedderFails(t *testing.T) {
	r := NewRetriever(builtinStore(t), failingEmbedder{}, DefaultParams())
	results := r.Retrieve(context.Background(), "what is the freedom formula", 5)
	if len(results) == 0 {
		t.Fatal("expected tfidf fallback results")
	}
	if idx := r.idx.Load(); idx == nil || idx.mode != modeTFIDF {
		t.Fatal("index should have been built in tfidf mode")
	}
}

func TestValidateRecallOnBuiltinKB(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	rec := r.Validate(context.Background(), 0, 5)
	if rec.SampleSize == 0 {
		t.Fatal("expected non-empty sample")
	}
	if rec.At1 < 0.95 {
		t.Fatalf("recall@1 = %.2f, want >= 0.95", rec.At1)
	}
	if rec.At5 < rec.At3 || rec.At3 < rec.At1 {
		t.Fatalf("recall must be monotone: %.2f/%.2f/%.2f", rec.At1, rec.At3, rec.At5)
	}
}

func TestConcurrentFirstQueriesBuildOnce(t *testing.T) {
	r := NewRetriever(builtinStore(t), nil, DefaultParams())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Retrieve(context.Background(), "what is business credit", 5)
		}()
	}
	wg.Wait()
	if r.idx.Load() == nil {
		t.Fatal("index missing after concurrent queries")
	}
}
