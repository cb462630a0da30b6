package semantic

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/creditoracademy/answer-engine/internal/kb"
)

// #region index

type encoderMode string

const (
	modeDense encoderMode = "dense"
	modeTFIDF encoderMode = "tfidf"
)

// index is an immutable snapshot published atomically after build.
// Reads after publication are lock-free.
type index struct {
	mode    encoderMode
	entries []*kb.Entry
	dense   [][]float64
	sparse  []sparseVec
	vec     *tfidfVectorizer
}

// #endregion index

// #region retriever

// Retriever answers semantic queries over the curated store. The index
// is built lazily on first use: dense embeddings when an embedder is
// available, TF-IDF otherwise. The encoder choice is fixed per build and
// never varies per query.
type Retriever struct {
	store    *kb.Store
	embedder Embedder

	mu     sync.Mutex // serializes builds and param updates
	params Params
	idx    atomic.Pointer[index]
}

// NewRetriever creates a retriever over the curated store. embedder may
// be nil, which selects the TF-IDF encoder.
func NewRetriever(store *kb.Store, embedder Embedder, params Params) *Retriever {
	if params.TopKDefault <= 0 {
		params.TopKDefault = DefaultParams().TopKDefault
	}
	if params.TFIDFMaxFeatures <= 0 {
		params.TFIDFMaxFeatures = DefaultParams().TFIDFMaxFeatures
	}
	return &Retriever{store: store, embedder: embedder, params: params}
}

// #endregion retriever

// #region retrieve

// Retrieve returns up to topK candidates above the similarity threshold,
// sorted descending. topK <= 0 selects the configured default. Returns
// an empty slice when the index cannot be built; never errors.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) []Candidate {
	idx := r.ensureIndex(ctx)
	if idx == nil || len(idx.entries) == 0 {
		return nil
	}

	r.mu.Lock()
	threshold := r.params.SimilarityThreshold
	if topK <= 0 {
		topK = r.params.TopKDefault
	}
	r.mu.Unlock()

	sims := r.similarities(ctx, idx, question)
	if sims == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(idx.entries))
	for i, e := range idx.entries {
		sim := sims[i]
		if sim < 0 {
			sim = 0
		}
		if sim < threshold {
			continue
		}
		candidates = append(candidates, Candidate{
			SourceKey:    e.Key,
			QuestionText: e.Key,
			AnswerText:   e.Answer,
			Similarity:   sim,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// similarities computes the query's similarity against every indexed
// entry using the index's encoder. nil signals an unusable query.
func (r *Retriever) similarities(ctx context.Context, idx *index, question string) []float64 {
	switch idx.mode {
	case modeDense:
		vecs, err := r.embedder.Embed(ctx, []string{question})
		if err != nil || len(vecs) != 1 {
			log.Printf("[RETRIEVER] query embed failed: %v", err)
			return nil
		}
		q := vecs[0]
		sims := make([]float64, len(idx.dense))
		for i, d := range idx.dense {
			sims[i] = dot(q, d)
		}
		return sims
	default:
		q := idx.vec.transform(question)
		if q == nil {
			return nil
		}
		sims := make([]float64, len(idx.sparse))
		for i, s := range idx.sparse {
			sims[i] = cosineSparse(q, s)
		}
		return sims
	}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// #endregion retrieve

// #region build

// ensureIndex returns the published index, building it on first use.
// Double-checked under the mutex so concurrent first queries build once.
func (r *Retriever) ensureIndex(ctx context.Context) *index {
	if idx := r.idx.Load(); idx != nil {
		return idx
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if idx := r.idx.Load(); idx != nil {
		return idx
	}

	idx := r.build(ctx)
	if idx == nil {
		return nil
	}
	r.idx.Store(idx)
	return idx
}

// build encodes every curated question. Falls back from dense to TF-IDF
// when the embedding service is unavailable at build time.
func (r *Retriever) build(ctx context.Context) *index {
	var entries []*kb.Entry
	var corpus []string
	for _, e := range r.store.Entries() {
		if e.Key == kb.DefaultKey {
			continue
		}
		entries = append(entries, e)
		corpus = append(corpus, e.Key)
	}
	if len(entries) == 0 {
		log.Printf("[RETRIEVER] no entries to index")
		return nil
	}

	if r.embedder != nil {
		vecs, err := r.embedder.Embed(ctx, corpus)
		if err == nil && len(vecs) == len(corpus) {
			log.Printf("[RETRIEVER] built dense index: %d entries", len(entries))
			return &index{mode: modeDense, entries: entries, dense: vecs}
		}
		log.Printf("[RETRIEVER] dense encoder unavailable, falling back to tfidf: %v", err)
	}

	vec := fitTFIDF(corpus, r.params.TFIDFMaxFeatures)
	sparse := make([]sparseVec, len(corpus))
	for i, doc := range corpus {
		sparse[i] = vec.transform(doc)
	}
	log.Printf("[RETRIEVER] built tfidf index: %d entries, %d features", len(entries), len(vec.vocab))
	return &index{mode: modeTFIDF, entries: entries, sparse: sparse, vec: vec}
}

// #endregion build

// #region params

// GetParams returns a copy of the current parameters.
func (r *Retriever) GetParams() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// UpdateParams replaces the parameters. Changing a vocabulary-affecting
// parameter (TFIDFMaxFeatures, ModelName) invalidates the index; it is
// rebuilt lazily on the next query.
func (r *Retriever) UpdateParams(p Params) {
	if p.TopKDefault <= 0 {
		p.TopKDefault = DefaultParams().TopKDefault
	}
	if p.TFIDFMaxFeatures <= 0 {
		p.TFIDFMaxFeatures = DefaultParams().TFIDFMaxFeatures
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rebuild := p.TFIDFMaxFeatures != r.params.TFIDFMaxFeatures || p.ModelName != r.params.ModelName
	r.params = p
	if rebuild {
		r.idx.Store(nil)
	}
}

// #endregion params

// #region validate

// Validate measures self-retrieval recall: query the index with each
// sampled entry's own question and record where the entry lands.
// Used for regression testing after retriever changes.
func (r *Retriever) Validate(ctx context.Context, sampleSize, topK int) Recall {
	var keys []string
	for _, e := range r.store.Entries() {
		if e.Key != kb.DefaultKey {
			keys = append(keys, e.Key)
		}
	}
	if len(keys) == 0 {
		return Recall{}
	}
	if sampleSize <= 0 || sampleSize > len(keys) {
		sampleSize = len(keys)
	}
	if topK < 5 {
		topK = 5
	}

	perm := rand.Perm(len(keys))[:sampleSize]

	var hit1, hit3, hit5 int
	for _, i := range perm {
		key := keys[i]
		results := r.Retrieve(ctx, key, topK)
		for pos, c := range results {
			if c.SourceKey != key {
				continue
			}
			if pos == 0 {
				hit1++
			}
			if pos < 3 {
				hit3++
			}
			if pos < 5 {
				hit5++
			}
			break
		}
	}

	n := float64(sampleSize)
	return Recall{
		SampleSize: sampleSize,
		At1:        float64(hit1) / n,
		At3:        float64(hit3) / n,
		At5:        float64(hit5) / n,
	}
}

// #endregion validate
