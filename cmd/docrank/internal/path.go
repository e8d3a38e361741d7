package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveCorpusRoot resolves the corpus root to an absolute, symlink-free
// directory path.
func ResolveCorpusRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	absPath, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", absPath)
	}
	return absPath, nil
}
