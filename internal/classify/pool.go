package classify

import "fmt"

// Pool reduces per-token embeddings to one fixed-size feature vector: the
// elementwise mean of the rows strictly between the two boundary tokens of
// the attended span. mask follows TokenBatch semantics. A span of two or
// fewer attended positions holds nothing but boundary tokens and fails with
// ErrEmptySequence instead of producing an undefined mean.
func Pool(embeddings [][]float32, mask []int64) ([]float32, error) {
	seqLen := 0
	for _, m := range mask {
		if m == 1 {
			seqLen++
		}
	}
	if seqLen <= 2 {
		return nil, fmt.Errorf("%w: attended span of %d tokens holds only boundary tokens", ErrEmptySequence, seqLen)
	}
	if seqLen > len(embeddings) {
		return nil, fmt.Errorf("mask covers %d positions but embedding has only %d rows", seqLen, len(embeddings))
	}

	rows := embeddings[1 : seqLen-1]
	dim := len(rows[0])
	sum := make([]float64, dim)
	for _, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("ragged embedding rows: %d and %d", dim, len(row))
		}
		for i, v := range row {
			sum[i] += float64(v)
		}
	}

	features := make([]float32, dim)
	count := float64(len(rows))
	for i, v := range sum {
		features[i] = float32(v / count)
	}
	return features, nil
}
