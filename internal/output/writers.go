// Package output writes classification results and problem entries in the
// line formats downstream TooT tooling consumes.
package output

import (
	"fmt"
	"io"
)

// ResultWriter emits one line per successful prediction. Writes go straight
// to the underlying writer so results survive an interrupted run.
type ResultWriter struct {
	w io.Writer
}

// NewResultWriter returns a writer for the results sink.
func NewResultWriter(w io.Writer) *ResultWriter {
	return &ResultWriter{w: w}
}

// Write records one prediction as "Sequence:<id>\tPrediction:<label>".
func (r *ResultWriter) Write(id, label string) error {
	_, err := fmt.Fprintf(r.w, "Sequence:%s\tPrediction:%s\n", id, label)
	return err
}

// ProblemWriter emits one line per failed record.
type ProblemWriter struct {
	w io.Writer
}

// NewProblemWriter returns a writer for the problems sink.
func NewProblemWriter(w io.Writer) *ProblemWriter {
	return &ProblemWriter{w: w}
}

// Write records one failure as "Problem with sequence <id>: <message>".
func (p *ProblemWriter) Write(id, message string) error {
	_, err := fmt.Fprintf(p.w, "Problem with sequence %s: %s\n", id, message)
	return err
}

// DefaultProblemPath derives the problem-file path from the results path.
func DefaultProblemPath(outputPath string) string {
	return outputPath + ".problem-sequences"
}
