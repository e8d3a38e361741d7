package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/DreamCats/docrank/internal/chunker"
	"github.com/DreamCats/docrank/internal/logging"
)

// Options selects which files under a root are loaded.
type Options struct {
	Extensions   []string // File extensions to load, e.g. ".txt"
	ExcludeDirs  []string // Directory base names never descended into
	Exclude      []string // doublestar patterns matched against path and basename
	UseGitignore bool     // Honour <root>/.gitignore
}

func DefaultOptions() Options {
	return Options{
		Extensions:   []string{".txt"},
		ExcludeDirs:  []string{".git", "node_modules", "vendor"},
		UseGitignore: false,
	}
}

// CorpusStats summarizes a loaded document set.
type CorpusStats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// LoadDirectory walks root recursively and returns the matching files as
// documents, in lexical path order. A document's ID is its path relative to
// the parent of root, using forward slashes (e.g. "docs/guide/intro.txt").
// Files that are not valid UTF-8 are skipped.
func LoadDirectory(root string, opts Options) ([]chunker.Document, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var gitignore *IgnoreMatcher
	if opts.UseGitignore {
		if gitignore, err = loadRootIgnore(absRoot); err != nil {
			return nil, err
		}
	}
	filter := NewFileFilter(opts, gitignore)
	idBase := filepath.Dir(absRoot)

	var docs []chunker.Document
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absRoot && filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !filter.ShouldLoad(rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if !utf8.Valid(data) {
			logging.LogWarn("Skipping file with invalid UTF-8", map[string]interface{}{
				"path": rel,
			})
			return nil
		}

		id, err := filepath.Rel(idBase, path)
		if err != nil {
			id = path
		}
		docs = append(docs, chunker.Document{ID: filepath.ToSlash(id), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load directory %s: %w", root, err)
	}

	logging.LogInfo("Directory loaded", map[string]interface{}{
		"root":  absRoot,
		"files": len(docs),
	})
	return docs, nil
}

func Stats(docs []chunker.Document) CorpusStats {
	stats := CorpusStats{Files: len(docs)}
	for _, doc := range docs {
		stats.Bytes += int64(len(doc.Content))
	}
	return stats
}
