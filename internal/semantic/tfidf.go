package semantic

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// #region vectorizer

// tfidfVectorizer is the sparse fallback encoder used when no dense
// embedding service is configured. Vocabulary is fitted once over the
// corpus, capped at maxFeatures terms by document frequency.
type tfidfVectorizer struct {
	vocab map[string]int // term → column
	idf   []float64      // per column
}

// sparseVec is an L2-normalized sparse vector keyed by vocabulary column.
type sparseVec map[int]float64

// #endregion vectorizer

// #region fit

// fitTFIDF builds the vocabulary and IDF table from the corpus.
func fitTFIDF(corpus []string, maxFeatures int) *tfidfVectorizer {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, t := range terms(doc) {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	type termDF struct {
		term string
		df   int
	}
	all := make([]termDF, 0, len(df))
	for t, d := range df {
		all = append(all, termDF{t, d})
	}
	// Highest document frequency first; ties broken lexically for
	// deterministic vocabularies.
	sort.Slice(all, func(i, j int) bool {
		if all[i].df != all[j].df {
			return all[i].df > all[j].df
		}
		return all[i].term < all[j].term
	})
	if maxFeatures > 0 && len(all) > maxFeatures {
		all = all[:maxFeatures]
	}

	v := &tfidfVectorizer{vocab: make(map[string]int, len(all)), idf: make([]float64, len(all))}
	n := float64(len(corpus))
	for col, td := range all {
		v.vocab[td.term] = col
		// Smoothed IDF, sklearn-style.
		v.idf[col] = math.Log((1+n)/(1+float64(td.df))) + 1
	}
	return v
}

// #endregion fit

// #region transform

// transform encodes a document as an L2-normalized TF-IDF sparse vector.
func (v *tfidfVectorizer) transform(doc string) sparseVec {
	counts := make(map[int]float64)
	for _, t := range terms(doc) {
		if col, ok := v.vocab[t]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	var sumSq float64
	for col, tf := range counts {
		w := tf * v.idf[col]
		counts[col] = w
		sumSq += w * w
	}
	norm := math.Sqrt(sumSq)
	for col := range counts {
		counts[col] /= norm
	}
	return counts
}

// cosineSparse computes cosine similarity of two normalized sparse vectors.
func cosineSparse(a, b sparseVec) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for col, w := range a {
		dot += w * b[col]
	}
	return dot
}

// #endregion transform

// #region terms

// terms splits a document into lowercase tokens of length >= 2.
// Unlike the lexical matcher, stopwords are kept; IDF already
// down-weights them.
func terms(doc string) []string {
	raw := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := raw[:0]
	for _, t := range raw {
		if len(t) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// #endregion terms
