package bert

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// resolveLibrary finds the onnxruntime shared library when no path is
// configured: the ONNXRUNTIME_SHARED_LIBRARY environment variable first, then
// the usual install locations for the platform.
func resolveLibrary() (string, error) {
	if path := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY"); path != "" {
		return path, nil
	}
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/opt/homebrew/lib/libonnxruntime.dylib",
			"/usr/local/lib/libonnxruntime.dylib",
		}
	case "windows":
		candidates = []string{
			"onnxruntime.dll",
			filepath.Join(os.Getenv("ProgramFiles"), "onnxruntime", "lib", "onnxruntime.dll"),
		}
	default:
		candidates = []string{
			"/usr/lib/libonnxruntime.so",
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
		}
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("onnxruntime shared library not found; set model.libraryPath or ONNXRUNTIME_SHARED_LIBRARY")
}
