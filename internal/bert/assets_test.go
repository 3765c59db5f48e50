package bert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureFileUsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// no URL configured, the cached file must be enough
	if err := EnsureFile(context.Background(), path, "", ""); err != nil {
		t.Fatalf("ensure: %v", err)
	}
}

func TestEnsureFileVerifiesChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	content := []byte("weights")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sum := sha256.Sum256(content)
	sha := hex.EncodeToString(sum[:])

	if err := EnsureFile(context.Background(), path, "", sha); err != nil {
		t.Fatalf("ensure with matching checksum: %v", err)
	}
	// checksum mismatch falls through to download, and there is no URL
	if err := EnsureFile(context.Background(), path, "", strings.Repeat("0", 64)); err == nil {
		t.Fatal("expected error for checksum mismatch without download URL")
	}
}

func TestEnsureFileDownloads(t *testing.T) {
	content := []byte("downloaded weights")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "assets", "model.onnx")
	sum := sha256.Sum256(content)
	sha := hex.EncodeToString(sum[:])

	if err := EnsureFile(context.Background(), path, ts.URL, sha); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("downloaded content is %q", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be cleaned up")
	}
}

func TestEnsureFileRejectsBadDownload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tampered"))
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := EnsureFile(context.Background(), path, ts.URL, strings.Repeat("0", 64)); err == nil {
		t.Fatal("expected checksum error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected no file after failed verification")
	}
}

func TestEnsureFileServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := EnsureFile(context.Background(), path, ts.URL, ""); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestEnsureFileMissingWithoutURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := EnsureFile(context.Background(), path, "", ""); err == nil {
		t.Fatal("expected error for missing file without URL")
	}
}

func TestEnsureFileEmptyPath(t *testing.T) {
	if err := EnsureFile(context.Background(), "  ", "http://example.invalid", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
