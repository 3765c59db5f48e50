// Package classify implements the per-sequence inference pipeline that
// discriminates transporter from non-transporter proteins: normalization,
// tokenization, BERT embedding, mean pooling and a linear decision, with
// per-record failure isolation.
package classify

import "context"

// Record is one input sequence paired with its identifier.
type Record struct {
	ID       string
	Sequence string
}

// TokenBatch holds the encoded form of a single sequence. AttentionMask has
// the same length as InputIDs; positions with mask 1 carry real or boundary
// tokens, trailing padding carries 0.
type TokenBatch struct {
	InputIDs      []int64
	AttentionMask []int64
}

// Tokenizer encodes a normalized sequence, adding the model's boundary tokens.
type Tokenizer interface {
	Encode(text string) (TokenBatch, error)
}

// Embedder returns the model's last hidden state for one token batch, one
// vector per token position.
type Embedder interface {
	Embed(ctx context.Context, batch TokenBatch) ([][]float32, error)
}

// Classifier maps a pooled feature vector to a class label.
type Classifier interface {
	Predict(features []float32) (string, error)
}

// FeatureCache memoizes pooled feature vectors by normalized sequence.
// Implementations swallow their own storage errors; a failed lookup is a miss.
type FeatureCache interface {
	Lookup(sequence string) ([]float32, bool)
	Save(sequence string, features []float32)
}

// Result is the outcome for one record: a prediction when Err is nil,
// otherwise the failure that turns the record into a problem entry.
type Result struct {
	ID    string
	Label string
	Err   error
}
