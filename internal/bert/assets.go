package bert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ModelSpec describes where embedding model artifacts come from. SHA256
// fields are optional; when empty the downloaded file is not verified.
type ModelSpec struct {
	ID              string
	ModelURL        string
	ModelSHA256     string
	TokenizerURL    string
	TokenizerSHA256 string
}

const (
	DefaultModelID           = "transporter-bert"
	DefaultModelURL          = "https://huggingface.co/ghazikhanihamed/TransporterBERT/resolve/main/onnx/model.onnx"
	DefaultTokenizerURL      = "https://huggingface.co/Rostlab/prot_bert_bfd/resolve/main/tokenizer.json"
	DefaultModelFileName     = "model.onnx"
	DefaultTokenizerFileName = "tokenizer.json"
)

// DefaultModelSpec returns the TransporterBERT configuration with the
// ProtBERT-BFD tokenizer.
func DefaultModelSpec() ModelSpec {
	return ModelSpec{
		ID:           DefaultModelID,
		ModelURL:     DefaultModelURL,
		TokenizerURL: DefaultTokenizerURL,
	}
}

// EnsureFile makes sure path exists, downloading it from url when missing.
// A non-empty expectedSHA verifies both cached and freshly downloaded files.
func EnsureFile(ctx context.Context, path, url, expectedSHA string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("asset path is required")
	}
	if ok, err := fileReady(path, expectedSHA); err != nil {
		return err
	} else if ok {
		return nil
	}
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%s is missing and no download URL is configured", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create asset dir: %w", err)
	}

	client := &http.Client{Timeout: 15 * time.Minute}
	tmp := path + ".tmp"
	if err := downloadToFile(ctx, client, url, tmp); err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	if ok, err := fileReady(tmp, expectedSHA); err != nil {
		_ = os.Remove(tmp)
		return err
	} else if !ok {
		_ = os.Remove(tmp)
		return fmt.Errorf("checksum mismatch for %s", filepath.Base(path))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to finalize download: %w", err)
	}
	return nil
}

// fileReady reports whether path exists and, when expectedSHA is set, matches
// the checksum.
func fileReady(path, expectedSHA string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	if strings.TrimSpace(expectedSHA) == "" {
		return true, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	sum := hex.EncodeToString(hash.Sum(nil))
	return strings.EqualFold(sum, strings.TrimSpace(expectedSHA)), nil
}

func downloadToFile(ctx context.Context, client *http.Client, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return nil
}
