// Package bert loads the pretrained assets behind the pipeline: the
// HuggingFace tokenizer, the transporter BERT model exported to ONNX, and the
// onnxruntime shared library that executes it.
package bert

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/ramou/TooT-BERT-T/internal/classify"
)

// HFTokenizer wraps a HuggingFace-compatible tokenizer.json. The vocabulary
// is case sensitive; no lowercasing is applied.
type HFTokenizer struct {
	inner *tokenizer.Tokenizer
}

// NewHFTokenizer loads a tokenizer.json file using the pure-Go tokenizer.
func NewHFTokenizer(path string) (*HFTokenizer, error) {
	if path == "" {
		return nil, fmt.Errorf("tokenizer path is required")
	}
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &HFTokenizer{inner: tk}, nil
}

// Encode returns token IDs and attention mask with boundary tokens enabled.
func (t *HFTokenizer) Encode(text string) (classify.TokenBatch, error) {
	if t == nil || t.inner == nil {
		return classify.TokenBatch{}, fmt.Errorf("tokenizer is not initialized")
	}
	encoding, err := t.inner.EncodeSingle(text, true)
	if err != nil {
		return classify.TokenBatch{}, err
	}
	if len(encoding.AttentionMask) != len(encoding.Ids) {
		return classify.TokenBatch{}, fmt.Errorf("tokenizer returned %d mask entries for %d ids",
			len(encoding.AttentionMask), len(encoding.Ids))
	}
	batch := classify.TokenBatch{
		InputIDs:      make([]int64, len(encoding.Ids)),
		AttentionMask: make([]int64, len(encoding.AttentionMask)),
	}
	for i, id := range encoding.Ids {
		batch.InputIDs[i] = int64(id)
	}
	for i, m := range encoding.AttentionMask {
		batch.AttentionMask[i] = int64(m)
	}
	return batch, nil
}
