package discovery

import (
	"path/filepath"
	"strings"
)

// Filter narrows a discovered file list down to an include set.
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByPatterns keeps only files matching at least one include pattern.
// A pattern matches the file's base name or its project-relative path,
// either exactly, by wildcard (* and ?), or as a plain substring when it
// carries no wildcard. An empty pattern list keeps everything.
func (f *Filter) FilterByPatterns(files []string, patterns []string) []string {
	if len(patterns) == 0 {
		return files
	}

	var filtered []string
	for _, file := range files {
		if matchesAny(file, patterns) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// FilterByName filters by a single pattern; empty pattern keeps everything.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}
	return f.FilterByPatterns(files, []string{pattern})
}

func matchesAny(file string, patterns []string) bool {
	base := filepath.Base(file)
	for _, pattern := range patterns {
		if matchesPattern(base, pattern) || matchesPattern(file, pattern) {
			return true
		}
		// Patterns given as relative paths match against the path suffix
		if strings.Contains(pattern, "/") && strings.HasSuffix(file, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	// Wildcard patterns like "*Payment*" fall back to ordered substring
	// matching of the non-wildcard parts.
	parts := strings.Split(pattern, "*")
	rest := name
	for _, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return strings.ContainsRune(pattern, '*')
}
