package classify

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxTokens bounds the token count per sequence when no limit is
// configured.
const DefaultMaxTokens = 20000

// Pipeline runs the full inference chain for single sequences. The tokenizer,
// embedder and classifier are loaded once by the caller and shared read-only
// across records. Cache is optional; when set, pooled features for previously
// seen sequences skip tokenization and embedding.
type Pipeline struct {
	Tokenizer  Tokenizer
	Embedder   Embedder
	Classifier Classifier
	Cache      FeatureCache
	MaxTokens  int
}

// Process classifies one sequence end to end and returns its label. Failures
// map onto the recoverable error kinds in errors.go; Run catches them per
// record.
func (p *Pipeline) Process(ctx context.Context, sequence string) (string, error) {
	if p == nil || p.Tokenizer == nil || p.Embedder == nil || p.Classifier == nil {
		return "", fmt.Errorf("pipeline is not configured")
	}

	normalized := Normalize(sequence)

	features, ok := p.lookupFeatures(normalized)
	if !ok {
		var err error
		features, err = p.extractFeatures(ctx, normalized)
		if err != nil {
			return "", err
		}
		if p.Cache != nil {
			p.Cache.Save(normalized, features)
		}
	}

	label, err := p.Classifier.Predict(features)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassify, err)
	}
	return label, nil
}

// Run classifies records in input order, one at a time. Failure isolation is
// the defining contract here: a failed record is emitted with its error and
// the loop continues, so every record yields exactly one Result and results
// preserve input order. Run itself only fails on context cancellation.
func (p *Pipeline) Run(ctx context.Context, records []Record, emit func(Result)) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		label, err := p.Process(ctx, record.Sequence)
		emit(Result{ID: record.ID, Label: label, Err: err})
	}
	return nil
}

func (p *Pipeline) extractFeatures(ctx context.Context, normalized string) ([]float32, error) {
	batch, err := p.encode(normalized)
	if err != nil {
		return nil, err
	}

	embeddings, err := p.Embedder.Embed(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	features, err := Pool(embeddings, batch.AttentionMask)
	if err != nil {
		if errors.Is(err, ErrEmptySequence) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	return features, nil
}

func (p *Pipeline) encode(normalized string) (TokenBatch, error) {
	batch, err := p.Tokenizer.Encode(normalized)
	if err != nil {
		return TokenBatch{}, fmt.Errorf("%w: %v", ErrTokenize, err)
	}
	if len(batch.AttentionMask) != len(batch.InputIDs) {
		return TokenBatch{}, fmt.Errorf("%w: mask length %d does not match %d token ids",
			ErrTokenize, len(batch.AttentionMask), len(batch.InputIDs))
	}
	return truncate(batch, p.maxTokens()), nil
}

func (p *Pipeline) maxTokens() int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return DefaultMaxTokens
}

func (p *Pipeline) lookupFeatures(normalized string) ([]float32, bool) {
	if p.Cache == nil {
		return nil, false
	}
	return p.Cache.Lookup(normalized)
}

// truncate drops token positions from the end so the batch fits max,
// keeping the trailing boundary token in place.
func truncate(batch TokenBatch, max int) TokenBatch {
	n := len(batch.InputIDs)
	if max <= 0 || n <= max {
		return batch
	}
	ids := make([]int64, 0, max)
	mask := make([]int64, 0, max)
	ids = append(append(ids, batch.InputIDs[:max-1]...), batch.InputIDs[n-1])
	mask = append(append(mask, batch.AttentionMask[:max-1]...), batch.AttentionMask[n-1])
	return TokenBatch{InputIDs: ids, AttentionMask: mask}
}
