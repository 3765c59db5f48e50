package cache

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, modelID string) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "features.db"), modelID)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t, "transporter-bert")

	if _, ok := store.Lookup("M K V"); ok {
		t.Fatal("expected miss before save")
	}

	want := []float32{0.5, -1.25, 3.0}
	store.Save("M K V", want)

	got, ok := store.Lookup("M K V")
	if !ok {
		t.Fatal("expected hit after save")
	}
	if len(got) != len(want) {
		t.Fatalf("vector has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d is %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.db")
	store, err := Open(path, "transporter-bert")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store.Save("M K V L", []float32{1.0, 2.0})
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, "transporter-bert")
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()
	if _, ok := reopened.Lookup("M K V L"); !ok {
		t.Fatal("expected hit after reopen")
	}
}

func TestStorePartitionsByModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.db")
	first, err := Open(path, "model-a")
	if err != nil {
		t.Fatalf("open first store: %v", err)
	}
	first.Save("M K V", []float32{1.0})
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path, "model-b")
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	defer second.Close()
	if _, ok := second.Lookup("M K V"); ok {
		t.Fatal("expected miss for a different model ID")
	}
}

func TestOpenRequiresModelID(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "features.db"), ""); err == nil {
		t.Fatal("expected error for empty model ID")
	}
}

func TestStoreIgnoresEmptyVectors(t *testing.T) {
	store := openTestStore(t, "transporter-bert")
	store.Save("M K V", nil)
	if _, ok := store.Lookup("M K V"); ok {
		t.Fatal("expected empty vector to be dropped")
	}
}

func TestVectorCodec(t *testing.T) {
	want := []float32{0.0, -0.5, 1.5, 123.456}
	blob, err := encodeVector(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeVector(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d is %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}
