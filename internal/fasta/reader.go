// Package fasta reads amino-acid sequence records from FASTA input.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is a parsed FASTA entry. ID is the first whitespace-delimited token
// of the header line.
type Record struct {
	ID       string
	Sequence string
}

// ReadAll parses every record from r. The first non-blank line must be a
// header; sequence lines belonging to one record are concatenated. Input
// with no header at all, including empty input, is not a fasta file.
func ReadAll(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	// allow very long single-line sequences
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		records []Record
		id      string
		seq     strings.Builder
		open    bool
	)
	flush := func() {
		if open {
			records = append(records, Record{ID: id, Sequence: seq.String()})
			seq.Reset()
		}
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			id = headerID(line[1:])
			open = true
			continue
		}
		if !open {
			return nil, fmt.Errorf("input is not a fasta file")
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}
	if !open {
		return nil, fmt.Errorf("input is not a fasta file")
	}
	flush()
	return records, nil
}

func headerID(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
