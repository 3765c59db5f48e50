package fasta

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadAll(t *testing.T) {
	input := strings.NewReader(`>seq1 transporter candidate
MKVLT
AALG

>seq2
MMMM
`)
	records, err := ReadAll(input)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "seq1" {
		t.Fatalf("first id is %q, want seq1", records[0].ID)
	}
	if records[0].Sequence != "MKVLTAALG" {
		t.Fatalf("first sequence is %q, want MKVLTAALG", records[0].Sequence)
	}
	if records[1].ID != "seq2" || records[1].Sequence != "MMMM" {
		t.Fatalf("second record is %+v", records[1])
	}
}

func TestReadAllRejectsNonFasta(t *testing.T) {
	if _, err := ReadAll(strings.NewReader("MKVLT\n")); err == nil {
		t.Fatal("expected error for sequence data before any header")
	}
}

func TestReadAllRejectsHeaderlessInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank lines only", "\n\n  \n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadAll(strings.NewReader(tc.input)); err == nil {
				t.Fatal("expected error for input without a header")
			}
		})
	}
}

func TestReadAllHeaderOnlyRecord(t *testing.T) {
	records, err := ReadAll(strings.NewReader(">seq1\n>seq2\nMK\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Sequence != "" {
		t.Fatalf("expected empty sequence for seq1, got %q", records[0].Sequence)
	}
}

func TestReadFilePlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.fasta")
	if err := os.WriteFile(path, []byte(">seq1\nMKV\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(records) != 1 || records[0].Sequence != "MKV" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestReadFileGzip(t *testing.T) {
	// no .gz suffix on purpose, detection goes by magic number
	path := filepath.Join(t.TempDir(), "input.fasta")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(">seq1\nMKVL\n")); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(records) != 1 || records[0].Sequence != "MKVL" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.fasta")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
