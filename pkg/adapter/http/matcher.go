package http

import (
	"path"
	"strings"
)

// pathSet matches request paths against exclusion patterns. Patterns are
// split into segments once; "*" matches one segment, or any remainder when
// it is the last segment.
type pathSet struct {
	patterns [][]string
}

func newPathSet(patterns []string) pathSet {
	set := pathSet{patterns: make([][]string, 0, len(patterns))}
	for _, p := range patterns {
		set.patterns = append(set.patterns, segments(p))
	}
	return set
}

// Contains reports whether reqPath matches any pattern in the set.
func (s pathSet) Contains(reqPath string) bool {
	if len(s.patterns) == 0 {
		return false
	}
	req := segments(reqPath)
	for _, pattern := range s.patterns {
		if matchSegments(req, pattern) {
			return true
		}
	}
	return false
}

// segments cleans p and splits it on "/". The root path yields [""].
func segments(p string) []string {
	return strings.Split(strings.Trim(path.Clean("/"+p), "/"), "/")
}

func matchSegments(req, pattern []string) bool {
	if n := len(pattern); n > 0 && pattern[n-1] == "*" {
		prefix := pattern[:n-1]
		return len(req) >= len(prefix) && matchEach(req[:len(prefix)], prefix)
	}
	return len(req) == len(pattern) && matchEach(req, pattern)
}

func matchEach(req, pattern []string) bool {
	for i, seg := range pattern {
		if seg != "*" && seg != req[i] {
			return false
		}
	}
	return true
}
