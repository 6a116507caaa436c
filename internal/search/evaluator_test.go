package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// sinkOptions returns options wired to collect emitted records.
func sinkOptions(keywords ...string) (*SearchOptions, *[]Match) {
	opts := DefaultOptions()
	opts.Keywords = keywords
	records := &[]Match{}
	opts.Report = func(m Match) { *records = append(*records, m) }
	return &opts, records
}

func TestSearchFileSizeCountedBeforeGate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "small.txt", "hello hello hello") // 17 bytes

	opts, records := sinkOptions("hello")
	opts.MinSize = 1000

	stats := &SearchStats{}
	matched := searchFile(path, opts, stats)

	assert.False(t, matched)
	assert.Equal(t, int64(17), stats.TotalSizeBytes, "gated files still count toward total size")
	assert.Equal(t, int64(0), stats.FilesSearched)
	assert.Equal(t, int64(0), stats.TotalMatches)
	assert.Empty(t, *records)
}

func TestSearchFileMaxSizeGate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.txt", "hello world, far too big")

	opts, _ := sinkOptions("hello")
	opts.MaxSize = 5

	stats := &SearchStats{}
	assert.False(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(0), stats.FilesSearched)
	assert.Equal(t, int64(24), stats.TotalSizeBytes)
}

func TestSearchFilePatternGate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "hello")

	opts, records := sinkOptions("hello")
	opts.FilePattern = "*.log"

	stats := &SearchStats{}
	assert.False(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(0), stats.FilesSearched, "pattern-gated files are not searched")
	assert.Equal(t, int64(5), stats.TotalSizeBytes)
	assert.Empty(t, *records)
}

func TestSearchFileNoMatchStillSearched(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.txt", "nothing of interest\n")

	opts, records := sinkOptions("keyword")
	stats := &SearchStats{}

	assert.False(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(1), stats.FilesSearched)
	assert.Equal(t, int64(0), stats.FilesMatched)
	assert.Empty(t, *records)
}

func TestSearchFileContentMatches(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.txt", "error one\nfine\nerror two\n")

	opts, records := sinkOptions("error")
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(1), stats.FilesSearched)
	assert.Equal(t, int64(1), stats.FilesMatched, "a file is matched once, not per line")
	assert.Equal(t, int64(2), stats.TotalMatches)

	require.Len(t, *records, 2)
	first, second := (*records)[0], (*records)[1]
	assert.Equal(t, ContentMatch, first.Kind)
	assert.Equal(t, path, first.Path)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "error one", first.Text)
	assert.Equal(t, 3, second.Line)
	assert.Less(t, first.Line, second.Line, "content records stay in line order")
}

func TestSearchFileLineNumbersOff(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.txt", "error here\n")

	opts, records := sinkOptions("error")
	opts.ShowLineNumbers = false
	stats := &SearchStats{}

	searchFile(path, opts, stats)
	require.Len(t, *records, 1)
	assert.Equal(t, 0, (*records)[0].Line)
	assert.Equal(t, "error here", (*records)[0].Text)
}

func TestSearchFileOnlyMatchingShortCircuit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.txt", "one\nneedle first\nthree\nfour\nneedle again\n")

	opts, records := sinkOptions("needle")
	opts.OnlyMatching = true
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(1), stats.TotalMatches, "scan stops at the first hit")
	assert.Equal(t, int64(1), stats.FilesMatched)

	require.Len(t, *records, 1)
	assert.Equal(t, FileMatch, (*records)[0].Kind)
	assert.Equal(t, path, (*records)[0].Path)
}

func TestSearchFileFilenameFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "needle.txt", "no content hit here\n")

	opts, records := sinkOptions("needle")
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(1), stats.TotalMatches)
	assert.Equal(t, int64(1), stats.FilesMatched)

	require.Len(t, *records, 1)
	assert.Equal(t, FilenameMatch, (*records)[0].Kind)
	assert.Equal(t, "needle.txt", (*records)[0].Text)
}

func TestSearchFileContentWinsOverFilename(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "needle.txt", "a needle in the content\n")

	opts, records := sinkOptions("needle")
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(1), stats.TotalMatches, "no filename re-check after a content match")
	assert.Equal(t, int64(1), stats.FilesMatched)

	require.Len(t, *records, 1)
	assert.Equal(t, ContentMatch, (*records)[0].Kind)
}

func TestSearchFileFilenameCaseRule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "NEEDLE.txt", "nothing\n")

	opts, _ := sinkOptions("needle")
	stats := &SearchStats{}
	assert.False(t, searchFile(path, opts, stats), "sensitive mode misses NEEDLE.txt")

	opts2, _ := sinkOptions("needle")
	opts2.CaseSensitive = false
	stats2 := &SearchStats{}
	assert.True(t, searchFile(path, opts2, stats2))
}

func TestSearchFileCountOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.txt", "error\nerror\n")

	opts, records := sinkOptions("error")
	opts.CountOnly = true
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(2), stats.TotalMatches)
	assert.Empty(t, *records, "count-only suppresses all records")
}

func TestSearchFileContentDisabled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.txt", "keyword in content\n")

	opts, records := sinkOptions("keyword")
	opts.SearchContent = false
	stats := &SearchStats{}

	assert.False(t, searchFile(path, opts, stats))
	assert.Empty(t, *records)
}

func TestSearchFileUnreadableSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "secret.txt", "needle\n")
	require.NoError(t, os.Chmod(path, 0o000))

	opts, records := sinkOptions("needle")
	stats := &SearchStats{}

	assert.False(t, searchFile(path, opts, stats))
	assert.Equal(t, int64(0), stats.TotalSizeBytes)
	assert.Empty(t, *records)
}

func TestSearchFileMMapPrefilter(t *testing.T) {
	dir := t.TempDir()
	hit := writeFile(t, dir, "hit.txt", "some needle content\n")
	miss := writeFile(t, dir, "miss.txt", "nothing relevant\n")

	opts, records := sinkOptions("needle")
	opts.SearchFilenames = false
	opts.UseMMap = true
	opts.MinMMapSize = 1
	stats := &SearchStats{}

	assert.True(t, searchFile(hit, opts, stats))
	assert.False(t, searchFile(miss, opts, stats))
	assert.Equal(t, int64(2), stats.FilesSearched, "prefiltered files still count as searched")
	assert.Equal(t, int64(1), stats.TotalMatches)
	require.Len(t, *records, 1)
	assert.Equal(t, hit, (*records)[0].Path)
}

func TestSearchFileComputeHash(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.txt", "needle\n")

	opts, records := sinkOptions("needle")
	opts.ComputeHash = true
	stats := &SearchStats{}

	assert.True(t, searchFile(path, opts, stats))
	require.Len(t, *records, 1)
	assert.NotZero(t, (*records)[0].Hash)
}
