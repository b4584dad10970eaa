package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Matcher decides whether a relative path is excluded from traversal.
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .git/, node_modules/
//   - Path patterns: build/*, **/test/*
//   - Negation: !important.log re-includes a path excluded earlier
//
// The last matching pattern wins, as in gitignore.
type Matcher struct {
	rules []rule
}

type rule struct {
	pattern string
	negate  bool
	dirOnly bool
}

// New builds a matcher from patterns. Empty patterns and comments are skipped.
func New(patterns ...string) *Matcher {
	m := &Matcher{}
	m.Add(patterns...)
	return m
}

// Add appends patterns to the matcher
func (m *Matcher) Add(patterns ...string) {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		r := rule{}
		if strings.HasPrefix(p, "!") {
			r.negate = true
			p = strings.TrimPrefix(p, "!")
		}
		p = strings.ReplaceAll(p, "\\", "/")
		if strings.HasSuffix(p, "/") {
			r.dirOnly = true
			p = strings.TrimSuffix(p, "/")
		}
		p = strings.TrimPrefix(p, "/")
		if p == "" {
			continue
		}
		r.pattern = p
		m.rules = append(m.rules, r)
	}
}

// Load reads ignore patterns, one per line, from r
func (m *Matcher) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ignore patterns: %w", err)
	}
	return nil
}

// LoadFile reads an ignore file into the matcher
func (m *Matcher) LoadFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer f.Close()
	return m.Load(f)
}

// Len returns the number of active rules
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Excluded reports whether relativePath (slash-separated) is filtered out.
// A nil matcher excludes nothing.
func (m *Matcher) Excluded(relativePath string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}

	excluded := false
	for _, r := range m.rules {
		if r.matches(relativePath, isDir) {
			excluded = !r.negate
		}
	}
	return excluded
}

func (r rule) matches(relativePath string, isDir bool) bool {
	baseName := path.Base(relativePath)

	if r.dirOnly {
		// A directory pattern covers the directory itself and anything beneath it
		if isDir && (relativePath == r.pattern || matchGlob(baseName, r.pattern)) {
			return true
		}
		return strings.HasPrefix(relativePath, r.pattern+"/") ||
			strings.Contains(relativePath, "/"+r.pattern+"/") ||
			matchAnyParent(relativePath, r.pattern)
	}

	// ** matches any path depth
	if strings.Contains(r.pattern, "**") {
		if prefix, ok := strings.CutSuffix(r.pattern, "/**"); ok {
			return strings.HasPrefix(relativePath, prefix+"/")
		}
		suffix, ok := strings.CutPrefix(r.pattern, "**/")
		if !ok {
			return false
		}
		if matchGlob(baseName, suffix) || relativePath == suffix {
			return true
		}
		return matchSuffixPath(relativePath, suffix)
	}

	// Patterns with a separator apply to the full path or one of its trailing sub-paths
	if strings.Contains(r.pattern, "/") {
		return matchSuffixPath(relativePath, r.pattern)
	}

	// Otherwise the pattern applies to the basename only
	return matchGlob(baseName, r.pattern)
}

// matchGlob performs simple glob matching on a single path component
func matchGlob(name, pattern string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}

// matchAnyParent checks if any parent directory component matches the pattern
func matchAnyParent(relativePath, pattern string) bool {
	parts := strings.Split(relativePath, "/")
	for _, part := range parts[:len(parts)-1] {
		if matchGlob(part, pattern) {
			return true
		}
	}
	return false
}

// matchSuffixPath checks whether any trailing sub-path matches the pattern
func matchSuffixPath(relativePath, pattern string) bool {
	parts := strings.Split(relativePath, "/")
	for i := range parts {
		matched, _ := path.Match(pattern, strings.Join(parts[i:], "/"))
		if matched {
			return true
		}
	}
	return false
}
