package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultCacheDir returns the per-user cache directory (~/.stroma),
// falling back to a temp directory when no home is available.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "stroma")
	}
	return filepath.Join(home, ".stroma")
}

// ResolveCacheDir expands a leading "~" and, during `go run`/`go test`
// development runs, redirects the cache into a sandbox directory so a
// half-finished change cannot clobber the user's real cache.
func ResolveCacheDir(dir string) string {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	if IsDevRun() {
		return filepath.Join(os.TempDir(), "stroma-dev", filepath.Base(dir))
	}
	return dir
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Binaries built by `go run` live under the go-build cache; test binaries
// end in ".test".
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.Contains(exe, string(filepath.Separator)+"go-build") {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}
