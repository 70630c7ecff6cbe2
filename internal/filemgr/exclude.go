package filemgr

import (
	"path/filepath"
	"strings"
)

// excludePattern is a parsed exclusion pattern with its matching strategy.
type excludePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// ExcludeMatcher checks file paths against a set of exclusion patterns.
// Patterns without '/' match against the file's basename only.
// Patterns with '/' match against the full relative path from the
// directory being archived.
type ExcludeMatcher struct {
	patterns []excludePattern
}

// NewExcludeMatcher creates an ExcludeMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewExcludeMatcher(rawPatterns []string) *ExcludeMatcher {
	var patterns []excludePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, excludePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &ExcludeMatcher{patterns: patterns}
}

// Match reports whether the given relative path should be excluded.
func (m *ExcludeMatcher) Match(relativePath string) bool {
	if len(m.patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	basename := filepath.Base(relativePath)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, normalized)
		} else {
			matched, err = filepath.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern — skip rather than crash.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
