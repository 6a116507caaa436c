package search

import (
	"errors"
)

// Buffer limits inherited from the fixed-size C implementation this tool
// replaces; here they are explicit caps, not silent truncation points.
const (
	MaxPathLength = 4096 // longest joined path the walker will visit
	MaxLineLength = 2048 // content lines are truncated to this many bytes
)

// ErrNoKeywords is returned by Walk when the keyword set is empty.
// It is the only configuration error the engine reports; everything
// else (unreadable files, bad subtrees) is skipped and logged.
var ErrNoKeywords = errors.New("no keywords specified")

// MatchKind tells the reporting layer which record shape it received.
type MatchKind int

const (
	// ContentMatch carries a line of text, with a line number when
	// ShowLineNumbers is set.
	ContentMatch MatchKind = iota
	// FilenameMatch means a keyword matched the basename; Text holds
	// the basename that matched.
	FilenameMatch
	// FileMatch is a bare-path record emitted in only-matching-files mode.
	FileMatch
)

// Match is a single search hit handed to the report sink. Records are
// transient: the engine never retains them after the sink returns.
type Match struct {
	Kind MatchKind
	Path string
	Line int    // content matches only, 0 when line numbers are off
	Text string // matched line (truncated) or matched basename
	Hash uint64 // quick content hash, set only when ComputeHash is on
}

// ReportFunc receives match records as the walk produces them. Within one
// file, content records arrive in ascending line order.
type ReportFunc func(Match)

// SearchOptions contains search parameters for one walk. Build it once,
// treat it as read-only while the walk runs.
type SearchOptions struct {
	Keywords        []string // substrings to search for; must be non-empty
	StartDir        string   // directory the walk begins in
	CaseSensitive   bool
	Recursive       bool // descend into subdirectories
	SearchFilenames bool // match keywords against basenames
	SearchContent   bool // match keywords against file lines
	ShowLineNumbers bool
	OnlyMatching    bool     // report matching files once, stop at first hit
	CountOnly       bool     // update stats but emit no records
	MaxDepth        int      // -1 = unlimited, 0 = start directory only
	MinSize         int64    // minimum file size in bytes, 0 = no minimum
	MaxSize         int64    // maximum file size in bytes, -1 = no maximum
	FilePattern     string   // *.ext or exact basename, empty = all files
	ExcludePatterns []string // doublestar globs for paths to skip entirely
	UseMMap         bool     // mmap prefilter for large files (case-sensitive only)
	MinMMapSize     int64    // minimum file size for the mmap prefilter
	ComputeHash     bool     // attach a quick xxhash of matched files
	Report          ReportFunc
}

// DefaultOptions returns the conventional defaults: case-sensitive,
// recursive search of both filenames and content starting in the
// current directory, no size or depth bounds.
func DefaultOptions() SearchOptions {
	return SearchOptions{
		StartDir:        ".",
		CaseSensitive:   true,
		Recursive:       true,
		SearchFilenames: true,
		SearchContent:   true,
		ShowLineNumbers: true,
		MaxDepth:        -1,
		MaxSize:         -1,
		MinMMapSize:     1 << 20,
	}
}

// report hands a record to the sink if one is attached.
func (o *SearchOptions) report(m Match) {
	if o.Report != nil {
		o.Report(m)
	}
}
