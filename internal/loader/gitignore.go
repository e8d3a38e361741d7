package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreRule is one .gitignore line compiled into the globs it matches.
type ignoreRule struct {
	globs   []string
	dirOnly bool
	negated bool
}

// IgnoreMatcher evaluates .gitignore style rules; later rules win.
type IgnoreMatcher struct {
	rules []ignoreRule
}

func NewIgnoreMatcher() *IgnoreMatcher {
	return &IgnoreMatcher{}
}

// loadRootIgnore reads <root>/.gitignore. A missing file yields an empty matcher.
func loadRootIgnore(root string) (*IgnoreMatcher, error) {
	m := NewIgnoreMatcher()
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}
	if err := m.ParseGitignore(content); err != nil {
		return nil, fmt.Errorf("parse .gitignore: %w", err)
	}
	return m, nil
}

// ParseGitignore adds every pattern line of content. Blank lines and
// comments are skipped.
func (m *IgnoreMatcher) ParseGitignore(content []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern compiles a single .gitignore pattern. A leading "/" anchors it
// to the root, otherwise it matches at any depth.
func (m *IgnoreMatcher) AddPattern(pattern string) {
	var rule ignoreRule
	if rest, ok := strings.CutPrefix(pattern, "!"); ok {
		rule.negated = true
		pattern = rest
	}
	if rest, ok := strings.CutSuffix(pattern, "/"); ok {
		rule.dirOnly = true
		pattern = rest
	}
	if rest, ok := strings.CutPrefix(pattern, "/"); ok {
		rule.globs = []string{rest}
	} else {
		rule.globs = []string{pattern, "**/" + pattern}
	}
	m.rules = append(m.rules, rule)
}

// Match reports whether relPath is ignored.
func (m *IgnoreMatcher) Match(relPath string, isDir bool) bool {
	path := filepath.ToSlash(relPath)

	ignored := false
	for _, rule := range m.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		if rule.matches(path) {
			ignored = !rule.negated
		}
	}
	return ignored
}

func (r ignoreRule) matches(path string) bool {
	for _, glob := range r.globs {
		if ok, _ := doublestar.Match(glob, path); ok {
			return true
		}
	}
	return false
}
