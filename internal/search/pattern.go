package search

import (
	"path/filepath"
	"strings"
)

// MatchesPattern reports whether a filename satisfies the file pattern.
// Two pattern forms are supported: "*.<ext>" matches any basename whose
// extension (the part after the last dot) equals <ext> ignoring case, and
// anything else matches the basename exactly, ignoring case. An empty
// pattern matches everything. This is deliberately not a glob language:
// no multi-wildcard, no character classes.
func MatchesPattern(filename, pattern string) bool {
	if pattern == "" {
		return true
	}

	base := filepath.Base(filename)

	if strings.HasPrefix(pattern, "*.") {
		dot := strings.LastIndexByte(base, '.')
		if dot < 0 {
			return false
		}
		return strings.EqualFold(base[dot+1:], pattern[2:])
	}

	return strings.EqualFold(base, pattern)
}
