package bert

import (
	"path/filepath"
	"testing"
)

func TestNewHFTokenizerRequiresPath(t *testing.T) {
	if _, err := NewHFTokenizer(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewHFTokenizerMissingFile(t *testing.T) {
	if _, err := NewHFTokenizer(filepath.Join(t.TempDir(), "tokenizer.json")); err == nil {
		t.Fatal("expected error for missing tokenizer file")
	}
}

func TestHFTokenizerEncodeUninitialized(t *testing.T) {
	var tk *HFTokenizer
	if _, err := tk.Encode("M K V"); err == nil {
		t.Fatal("expected error for uninitialized tokenizer")
	}
}
