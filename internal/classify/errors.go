package classify

import "errors"

// Per-record failures recognized by the batch runner. Each one is converted
// into a problem entry for the failing record; none of them abort the run.
// Setup failures (model, tokenizer or classifier loading) are ordinary errors
// returned by the constructors and do abort.
var (
	ErrTokenize      = errors.New("tokenization failed")
	ErrEmptySequence = errors.New("no residue positions to pool")
	ErrInference     = errors.New("embedding inference failed")
	ErrClassify      = errors.New("classification failed")
)
