package search

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// searchFile evaluates a single regular file against the options, updating
// stats and emitting match records. It returns true iff the file matched
// by content or by filename. Files that cannot be opened are skipped
// silently; an unreadable file is not an error.
func searchFile(path string, opts *SearchOptions, stats *SearchStats) bool {
	f, err := os.Open(path)
	if err != nil {
		logDebug("skipping unreadable file %s: %v", path, err)
		return false
	}
	defer f.Close()

	var size int64 = -1
	if info, err := f.Stat(); err == nil {
		size = info.Size()
		// The bytes-scanned total counts every file that was opened,
		// including ones the size gate excludes below. Reported
		// statistics depend on this ordering.
		stats.TotalSizeBytes += size

		if (opts.MinSize > 0 && size < opts.MinSize) ||
			(opts.MaxSize >= 0 && size > opts.MaxSize) {
			return false
		}
	}

	if opts.FilePattern != "" && !MatchesPattern(path, opts.FilePattern) {
		return false
	}

	stats.FilesSearched++

	var hash uint64
	if opts.ComputeHash {
		hash = quickHash(path, size)
	}

	matched := false

	if opts.SearchContent && mayContainKeyword(f, size, opts) {
		sc := NewLineScanner(f, opts.Keywords, opts.CaseSensitive)
		for sc.Next() {
			stats.TotalMatches++
			matched = true

			if opts.OnlyMatching {
				// First hit is enough: stop scanning, report the
				// bare path. Remaining matches in this file are
				// intentionally not counted.
				stats.FilesMatched++
				if !opts.CountOnly {
					opts.report(Match{Kind: FileMatch, Path: path, Hash: hash})
				}
				return true
			}

			if !opts.CountOnly {
				m := Match{Kind: ContentMatch, Path: path, Text: sc.Text(), Hash: hash}
				if opts.ShowLineNumbers {
					m.Line = sc.Line()
				}
				opts.report(m)
			}
		}
		if err := sc.Err(); err != nil {
			logDebug("read error in %s: %v", path, err)
		}
	}

	// Filename matching is a fallback: a content match already decided
	// the file, so it is never re-checked against the basename.
	if opts.SearchFilenames && !matched {
		base := filepath.Base(path)
		if containsKeyword(base, opts) {
			stats.TotalMatches++
			stats.FilesMatched++
			if !opts.CountOnly {
				opts.report(Match{Kind: FilenameMatch, Path: path, Text: base, Hash: hash})
			}
			return true
		}
	}

	if matched {
		// Once per file, however many lines hit.
		stats.FilesMatched++
	}

	return matched
}

// containsKeyword reports whether any keyword occurs in s as a substring
// under the configured case rule.
func containsKeyword(s string, opts *SearchOptions) bool {
	if !opts.CaseSensitive {
		folded := strings.ToLower(s)
		for _, k := range opts.Keywords {
			if strings.Contains(folded, strings.ToLower(k)) {
				return true
			}
		}
		return false
	}
	for _, k := range opts.Keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// mayContainKeyword is the mmap prefilter for the line scan. For large
// files in case-sensitive mode it maps the file and tests raw keyword
// presence; a false result means no line scan can match, so the scan is
// skipped. Any mapping failure falls back to scanning.
func mayContainKeyword(f *os.File, size int64, opts *SearchOptions) bool {
	if !opts.UseMMap || !opts.CaseSensitive || size < opts.MinMMapSize || size <= 0 {
		return true
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		logDebug("mmap failed for %s: %v", f.Name(), err)
		return true
	}
	defer data.Unmap()

	for _, k := range opts.Keywords {
		if bytes.Contains(data, []byte(k)) {
			return true
		}
	}
	return false
}
