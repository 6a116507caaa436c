package search

import (
	"time"
)

// SearchStats aggregates counters for one walk. A fresh instance is passed
// by pointer through the whole call tree and read by the reporting layer
// once the walk returns. Counters only ever grow; there is no concurrency
// within a run, so no locking either.
type SearchStats struct {
	FilesSearched  int64 // files that passed the size and pattern gates
	FilesMatched   int64 // files with at least one match, counted once each
	TotalMatches   int64 // individual content and filename matches
	TotalSizeBytes int64 // sizes of every file opened, gated or not
	Start          time.Time
}

// Elapsed returns the time since the walk started.
func (s *SearchStats) Elapsed() time.Duration {
	if s.Start.IsZero() {
		return 0
	}
	return time.Since(s.Start)
}

// AvgFileSize returns the mean size in bytes of the files searched,
// or 0 when nothing was searched.
func (s *SearchStats) AvgFileSize() float64 {
	if s.FilesSearched == 0 {
		return 0
	}
	return float64(s.TotalSizeBytes) / float64(s.FilesSearched)
}

// MatchesPerFile returns the mean number of matches per searched file,
// or 0 when nothing was searched.
func (s *SearchStats) MatchesPerFile() float64 {
	if s.FilesSearched == 0 {
		return 0
	}
	return float64(s.TotalMatches) / float64(s.FilesSearched)
}
