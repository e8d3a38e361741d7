package loader

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/DreamCats/docrank/internal/logging"
)

// FileFilter decides which paths under the corpus root are loaded.
type FileFilter struct {
	opts       Options
	extensions map[string]struct{}
	gitignore  *IgnoreMatcher
}

func NewFileFilter(opts Options, gitignore *IgnoreMatcher) *FileFilter {
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &FileFilter{opts: opts, extensions: exts, gitignore: gitignore}
}

// SkipDir reports whether the directory at relPath should not be descended into.
func (f *FileFilter) SkipDir(relPath string) bool {
	base := filepath.Base(relPath)
	for _, dir := range f.opts.ExcludeDirs {
		if base == strings.TrimSuffix(dir, "/") {
			logging.LogDebug("Directory excluded", map[string]interface{}{
				"path":        relPath,
				"exclude_dir": dir,
			})
			return true
		}
	}
	if f.gitignore != nil && f.gitignore.Match(relPath, true) {
		logging.LogDebug("Directory excluded by .gitignore", map[string]interface{}{
			"path": relPath,
		})
		return true
	}
	return false
}

// ShouldLoad reports whether the file at relPath should be read.
func (f *FileFilter) ShouldLoad(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	if f.gitignore != nil && f.gitignore.Match(slashed, false) {
		logging.LogDebug("File excluded by .gitignore", map[string]interface{}{
			"path": slashed,
		})
		return false
	}

	for _, pattern := range f.opts.Exclude {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			logging.LogDebug("File excluded by pattern", map[string]interface{}{
				"path":    slashed,
				"pattern": pattern,
			})
			return false
		}
		base := filepath.Base(slashed)
		if matched, _ := doublestar.Match(pattern, base); matched {
			logging.LogDebug("File excluded by basename pattern", map[string]interface{}{
				"path":     slashed,
				"pattern":  pattern,
				"basename": base,
			})
			return false
		}
	}

	ext := strings.ToLower(filepath.Ext(slashed))
	if _, ok := f.extensions[ext]; !ok {
		return false
	}
	return true
}
