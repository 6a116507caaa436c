package search

import (
	"bufio"
	"io"
	"strings"
)

// LineScanner streams lines from a reader and surfaces those containing at
// least one keyword as a substring. Lines longer than MaxLineLength are
// truncated to the cap; the remainder of an overlong line is consumed and
// never mistaken for a following line. In case-insensitive mode both the
// keywords and each line are folded with strings.ToLower, which is
// locale-independent.
type LineScanner struct {
	r        *bufio.Reader
	keywords []string
	folded   []string // lowercased keywords, nil in case-sensitive mode
	line     int
	text     string
	err      error
	done     bool
}

// NewLineScanner returns a scanner over r for the given keyword set.
func NewLineScanner(r io.Reader, keywords []string, caseSensitive bool) *LineScanner {
	s := &LineScanner{
		r:        bufio.NewReader(r),
		keywords: keywords,
	}
	if !caseSensitive {
		s.folded = make([]string, len(keywords))
		for i, k := range keywords {
			s.folded[i] = strings.ToLower(k)
		}
	}
	return s
}

// Next advances to the next matching line, returning false when the stream
// is exhausted or a read error occurred. After Next returns true, Line and
// Text describe the match.
func (s *LineScanner) Next() bool {
	for {
		text, ok := s.readLine()
		if !ok {
			return false
		}
		s.line++
		if s.lineMatches(text) {
			s.text = text
			return true
		}
	}
}

// Line returns the 1-based number of the current matching line.
func (s *LineScanner) Line() int { return s.line }

// Text returns the current matching line, terminator stripped and
// truncated to MaxLineLength bytes.
func (s *LineScanner) Text() string { return s.text }

// Err returns the read error that stopped the scan, if any. io.EOF is
// normal completion and is not reported.
func (s *LineScanner) Err() error { return s.err }

// lineMatches checks the line against each keyword, stopping at the first
// one that hits.
func (s *LineScanner) lineMatches(text string) bool {
	if s.folded != nil {
		lower := strings.ToLower(text)
		for _, k := range s.folded {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// readLine consumes exactly one line from the reader and returns at most
// MaxLineLength bytes of it. The second result is false once the stream
// is done.
func (s *LineScanner) readLine() (string, bool) {
	if s.done {
		return "", false
	}
	var buf []byte
	sawData := false
	for {
		chunk, err := s.r.ReadSlice('\n')
		if len(chunk) > 0 {
			sawData = true
			if room := MaxLineLength - len(buf); room > 0 {
				if room > len(chunk) {
					room = len(chunk)
				}
				buf = append(buf, chunk[:room]...)
			}
		}
		switch err {
		case nil:
			return trimEOL(buf), true
		case bufio.ErrBufferFull:
			// Overlong line: keep consuming up to its real end.
			continue
		case io.EOF:
			s.done = true
			if sawData {
				return trimEOL(buf), true
			}
			return "", false
		default:
			s.done = true
			s.err = err
			return "", false
		}
	}
}

// trimEOL strips a trailing LF or CRLF.
func trimEOL(b []byte) string {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
	}
	if n > 0 && b[n-1] == '\r' {
		n--
	}
	return string(b[:n])
}
