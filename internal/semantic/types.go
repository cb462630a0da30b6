package semantic

import "context"

// #region candidate

// Candidate is one retrieval result, ephemeral per query.
type Candidate struct {
	SourceKey    string
	QuestionText string
	AnswerText   string
	Similarity   float64
}

// #endregion candidate

// #region params

// Params are the tunable retriever parameters exposed to operators.
type Params struct {
	TopKDefault         int     `json:"top_k_default" yaml:"top_k_default"`
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
	TFIDFMaxFeatures    int     `json:"tfidf_max_features" yaml:"tfidf_max_features"`
	ModelName           string  `json:"model_name" yaml:"model_name"`
}

// DefaultParams returns the production retriever defaults.
func DefaultParams() Params {
	return Params{
		TopKDefault:         5,
		SimilarityThreshold: 0.05,
		TFIDFMaxFeatures:    5000,
		ModelName:           "",
	}
}

// #endregion params

// #region embedder

// Embedder abstracts the dense embedding service so the retriever can be
// tested without HTTP. Implementations return one unit-norm vector per
// input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// #endregion embedder

// #region recall

// Recall holds retriever regression metrics from Validate.
type Recall struct {
	SampleSize int     `json:"sample_size"`
	At1        float64 `json:"recall_at_1"`
	At3        float64 `json:"recall_at_3"`
	At5        float64 `json:"recall_at_5"`
}

// #endregion recall
