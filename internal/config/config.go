// Package config loads optional YAML defaults for the CLI. Values set on
// the command line always win over the file; the search engine itself
// never reads configuration from disk.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"fwalker/internal/search"
)

// Config mirrors the CLI-settable search options. Pointer fields
// distinguish "absent from the file" from an explicit false/zero.
type Config struct {
	Keywords        []string `yaml:"keywords"`
	StartDir        string   `yaml:"start_dir"`
	CaseSensitive   *bool    `yaml:"case_sensitive"`
	Recursive       *bool    `yaml:"recursive"`
	SearchFilenames *bool    `yaml:"search_filenames"`
	SearchContent   *bool    `yaml:"search_content"`
	ShowLineNumbers *bool    `yaml:"show_line_numbers"`
	OnlyMatching    *bool    `yaml:"only_matching"`
	CountOnly       *bool    `yaml:"count_only"`
	MaxDepth        *int     `yaml:"max_depth"`
	MinSize         string   `yaml:"min_size"` // e.g. "1000" or "1.5MB"
	MaxSize         string   `yaml:"max_size"`
	FilePattern     string   `yaml:"file_pattern"`
	Exclude         []string `yaml:"exclude"`
	UseMMap         *bool    `yaml:"use_mmap"`
	MinMMapSize     string   `yaml:"min_mmap_size"`
	ComputeHash     *bool    `yaml:"compute_hash"`
}

// Load reads and parses a config file. Unknown keys are rejected so a
// typoed option fails loudly instead of being silently ignored.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Apply overlays the file's values onto opts, leaving absent fields alone.
func (c Config) Apply(opts *search.SearchOptions) error {
	if len(c.Keywords) > 0 {
		opts.Keywords = append(opts.Keywords, c.Keywords...)
	}
	if c.StartDir != "" {
		opts.StartDir = c.StartDir
	}
	if c.CaseSensitive != nil {
		opts.CaseSensitive = *c.CaseSensitive
	}
	if c.Recursive != nil {
		opts.Recursive = *c.Recursive
	}
	if c.SearchFilenames != nil {
		opts.SearchFilenames = *c.SearchFilenames
	}
	if c.SearchContent != nil {
		opts.SearchContent = *c.SearchContent
	}
	if c.ShowLineNumbers != nil {
		opts.ShowLineNumbers = *c.ShowLineNumbers
	}
	if c.OnlyMatching != nil {
		opts.OnlyMatching = *c.OnlyMatching
	}
	if c.CountOnly != nil {
		opts.CountOnly = *c.CountOnly
	}
	if c.MaxDepth != nil {
		opts.MaxDepth = *c.MaxDepth
	}
	if c.MinSize != "" {
		n, err := ParseSizeToBytes(c.MinSize)
		if err != nil {
			return fmt.Errorf("min_size: %w", err)
		}
		opts.MinSize = n
	}
	if c.MaxSize != "" {
		n, err := ParseSizeToBytes(c.MaxSize)
		if err != nil {
			return fmt.Errorf("max_size: %w", err)
		}
		opts.MaxSize = n
	}
	if c.FilePattern != "" {
		opts.FilePattern = c.FilePattern
	}
	if len(c.Exclude) > 0 {
		opts.ExcludePatterns = append(opts.ExcludePatterns, c.Exclude...)
	}
	if c.UseMMap != nil {
		opts.UseMMap = *c.UseMMap
	}
	if c.MinMMapSize != "" {
		n, err := ParseSizeToBytes(c.MinMMapSize)
		if err != nil {
			return fmt.Errorf("min_mmap_size: %w", err)
		}
		opts.MinMMapSize = n
	}
	if c.ComputeHash != nil {
		opts.ComputeHash = *c.ComputeHash
	}
	return nil
}

// ParseSizeToBytes converts a human size like "1.5MB" or "1000" to bytes.
func ParseSizeToBytes(s string) (int64, error) {
	v := strings.TrimSpace(strings.ToUpper(s))
	if v == "" {
		return 0, nil
	}
	units := []struct {
		U string
		M int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}
	for _, unit := range units {
		if strings.HasSuffix(v, unit.U) {
			n := strings.TrimSpace(strings.TrimSuffix(v, unit.U))
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size value: %s", s)
			}
			return int64(f * float64(unit.M)), nil
		}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %s", s)
	}
	return n, nil
}
