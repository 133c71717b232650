// Package pathutil resolves user-supplied paths into absolute form.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve expands a leading "~" to the current user's home directory and
// returns the absolute form of path. The path does not need to exist; callers
// use Resolve for output directories that are created later.
func Resolve(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("pathutil: expand %q: %w", path, err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("pathutil: resolve %q: %w", path, err)
	}
	return abs, nil
}
