package search

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Walk runs one search over the configured tree, updating stats and
// emitting match records through opts.Report. It returns ErrNoKeywords
// when the keyword set is empty; every filesystem-level failure inside
// the walk is skipped, so a walk that starts always completes.
func Walk(opts SearchOptions, stats *SearchStats) error {
	if len(opts.Keywords) == 0 {
		logError("refusing to walk: empty keyword set")
		return ErrNoKeywords
	}
	if opts.StartDir == "" {
		opts.StartDir = "."
	}
	logInfo("walking %s with %d keyword(s)", opts.StartDir, len(opts.Keywords))
	stats.Start = time.Now()
	searchDirectory(opts.StartDir, 0, &opts, stats)
	return nil
}

// searchDirectory recursively processes one directory level. Depth is 0
// for the start directory and grows by one per subdirectory.
func searchDirectory(path string, depth int, opts *SearchOptions, stats *SearchStats) {
	// Bound the recursion before touching the directory at all.
	if opts.MaxDepth >= 0 && depth > opts.MaxDepth {
		return
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Inaccessible subtrees never abort the run.
		logDebug("skipping unreadable directory %s: %v", path, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()

		// +1 for the joining separator.
		if len(path)+1+len(name) > MaxPathLength {
			logDebug("skipping overlong path under %s", path)
			continue
		}

		full := filepath.Join(path, name)
		if isExcluded(full, opts.ExcludePatterns) {
			logDebug("excluded by pattern: %s", full)
			continue
		}

		// Entry types come from a non-following stat: a symlink to a
		// directory stays a symlink here and is skipped below.
		switch {
		case entry.IsDir():
			if opts.Recursive {
				searchDirectory(full, depth+1, opts, stats)
			}
		case entry.Type().IsRegular():
			searchFile(full, opts, stats)
		default:
			// Symlinks, sockets, devices, FIFOs.
			logDebug("skipping non-regular entry %s", full)
		}
	}
}

// isExcluded matches a walked path against the exclude globs.
func isExcluded(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, slashed); err == nil && ok {
			return true
		}
	}
	return false
}
