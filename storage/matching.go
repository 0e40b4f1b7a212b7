package storage

import (
	"path/filepath"
	"strings"
)

// matchPattern reports whether name matches the glob pattern.
//
// An empty pattern and the bare "*" match every name. Matching
// otherwise follows filepath.Match semantics ("*", "?", character
// classes). Malformed patterns fall back to a simple matcher that
// understands a single "*" wildcard and literal equality, so a bad
// pattern narrows the result instead of failing the call.
func matchPattern(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil {
		return matched
	}
	return matchSimple(pattern, name)
}

// matchSimple handles the prefix, suffix, and substring forms of a
// single "*" wildcard, plus exact equality for literal patterns.
func matchSimple(pattern, name string) bool {
	if name == pattern {
		return true
	}

	star := strings.IndexByte(pattern, '*')
	if star < 0 || strings.LastIndexByte(pattern, '*') != star {
		// No wildcard, or more than one: literal match only.
		return false
	}

	prefix, suffix := pattern[:star], pattern[star+1:]
	return strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name[len(prefix):], suffix)
}
