package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"fwalker/internal/config"
	"fwalker/internal/search"
)

var (
	ignoreCase   bool
	noRecurse    bool
	onlyMatching bool
	countOnly    bool
	noLineNums   bool
	noFilenames  bool
	noContent    bool
	filePattern  string
	maxDepth     int
	minSize      int64
	maxSize      int64
	excludes     []string
	configPath   string
	useMMap      bool
	showHash     bool
	showProgress bool
	noColor      bool
	showVersion  bool
)

var (
	pathColor = color.New(color.FgMagenta)
	lineColor = color.New(color.FgGreen)
)

// formatSize formats a byte count in human-readable form
func formatSize(size float64) string {
	switch {
	case size >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GB", size/(1024*1024*1024))
	case size >= 1024*1024:
		return fmt.Sprintf("%.2f MB", size/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.2f KB", size/1024)
	default:
		return fmt.Sprintf("%.0f B", size)
	}
}

// splitArgs interprets a leading positional that names an existing
// directory as the start directory; everything else is a keyword.
func splitArgs(args []string) (startDir string, keywords []string) {
	if len(args) > 0 {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			return args[0], args[1:]
		}
	}
	return "", args
}

func printMatch(m search.Match) {
	switch m.Kind {
	case search.ContentMatch:
		if m.Line > 0 {
			fmt.Printf("%s:%s:%s", pathColor.Sprint(m.Path), lineColor.Sprintf("%d", m.Line), m.Text)
		} else {
			fmt.Printf("%s:%s", pathColor.Sprint(m.Path), m.Text)
		}
	case search.FilenameMatch:
		fmt.Printf("Filename match: %s", pathColor.Sprint(m.Path))
	case search.FileMatch:
		fmt.Printf("%s", pathColor.Sprint(m.Path))
	}
	if showHash {
		fmt.Printf(" [%016x]", m.Hash)
	}
	fmt.Println()
}

func printStats(stats *search.SearchStats) {
	fmt.Println("\n=== Search Statistics ===")
	fmt.Printf("Files searched:    %d\n", stats.FilesSearched)
	fmt.Printf("Files matched:     %d\n", stats.FilesMatched)
	fmt.Printf("Total matches:     %d\n", stats.TotalMatches)
	fmt.Printf("Total size:        %d bytes\n", stats.TotalSizeBytes)
	fmt.Printf("Time elapsed:      %.2f seconds\n", stats.Elapsed().Seconds())

	if stats.FilesSearched > 0 {
		fmt.Printf("Avg file size:     %s\n", formatSize(stats.AvgFileSize()))
		if stats.TotalMatches > 0 {
			fmt.Printf("Matches per file:  %.2f\n", stats.MatchesPerFile())
		}
	}
}

func main() {
	defer search.CloseLogger()

	var rootCmd = &cobra.Command{
		Use:   "fwalker [directory] keyword1 [keyword2 ...]",
		Short: "Safe recursive file search",
		Long: `Recursively searches a directory tree for keywords in file content
and filenames, with depth, size and filename-pattern filters.
Example: fwalker -f "*.go" -d 2 /usr/src error warning`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("fwalker v%s\n", search.Version)
				fmt.Printf("Build Time: %s\n", search.BuildTime)
				fmt.Printf("Git Commit: %s\n", search.GitCommit)
				return nil
			}

			if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}

			opts := search.DefaultOptions()
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if err := cfg.Apply(&opts); err != nil {
					return err
				}
			}

			startDir, keywords := splitArgs(args)
			if startDir != "" {
				opts.StartDir = startDir
			}
			opts.Keywords = append(opts.Keywords, keywords...)
			if len(opts.Keywords) == 0 {
				cmd.SilenceUsage = false
				return search.ErrNoKeywords
			}

			opts.CaseSensitive = opts.CaseSensitive && !ignoreCase
			opts.Recursive = opts.Recursive && !noRecurse
			opts.SearchFilenames = opts.SearchFilenames && !noFilenames
			opts.SearchContent = opts.SearchContent && !noContent
			opts.ShowLineNumbers = opts.ShowLineNumbers && !noLineNums
			if onlyMatching {
				opts.OnlyMatching = true
			}
			if countOnly {
				opts.CountOnly = true
			}
			if cmd.Flags().Changed("depth") {
				opts.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("min-size") {
				opts.MinSize = minSize
			}
			if cmd.Flags().Changed("max-size") {
				opts.MaxSize = maxSize
			}
			if filePattern != "" {
				opts.FilePattern = filePattern
			}
			opts.ExcludePatterns = append(opts.ExcludePatterns, excludes...)
			if useMMap {
				opts.UseMMap = true
			}
			if showHash {
				opts.ComputeHash = true
			}

			fmt.Print("Searching for: ")
			for _, k := range opts.Keywords {
				fmt.Printf("%q ", k)
			}
			fmt.Println()
			fmt.Printf("Starting directory: %s\n", opts.StartDir)
			if opts.CaseSensitive {
				fmt.Println("Case sensitive")
			} else {
				fmt.Println("Case insensitive")
			}
			if opts.FilePattern != "" {
				fmt.Printf("File pattern: %s\n", opts.FilePattern)
			}
			fmt.Println("----------------------------------------")

			var bar *progressbar.ProgressBar
			if showProgress {
				bar = progressbar.Default(-1, "Searching")
			}

			opts.Report = func(m search.Match) {
				if bar != nil {
					bar.Add(1)
					fmt.Println()
				}
				printMatch(m)
			}

			stats := &search.SearchStats{}
			if err := search.Walk(opts, stats); err != nil {
				return err
			}

			printStats(stats)
			return nil
		},
	}

	rootCmd.SilenceUsage = true
	rootCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case-insensitive search")
	rootCmd.Flags().BoolVarP(&noRecurse, "no-recurse", "R", false, "Do not descend into subdirectories")
	rootCmd.Flags().BoolVarP(&onlyMatching, "files-with-matches", "l", false, "Only show names of files with matches")
	rootCmd.Flags().BoolVarP(&countOnly, "count", "c", false, "Only count matches, don't show them")
	rootCmd.Flags().BoolVarP(&noLineNums, "no-line-numbers", "N", false, "Do not show line numbers")
	rootCmd.Flags().BoolVar(&noFilenames, "no-filenames", false, "Do not match keywords against filenames")
	rootCmd.Flags().BoolVar(&noContent, "no-content", false, "Do not search file content")
	rootCmd.Flags().StringVarP(&filePattern, "file-pattern", "f", "", "Search only files matching pattern (e.g., *.go)")
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", -1, "Maximum directory depth (-1 = unlimited)")
	rootCmd.Flags().Int64VarP(&minSize, "min-size", "s", 0, "Minimum file size in bytes")
	rootCmd.Flags().Int64VarP(&maxSize, "max-size", "S", -1, "Maximum file size in bytes (-1 = unlimited)")
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "Glob patterns for paths to skip (can repeat)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML config file with default options")
	rootCmd.Flags().BoolVar(&useMMap, "mmap", false, "Use memory mapping to prefilter large files")
	rootCmd.Flags().BoolVar(&showHash, "hash", false, "Show a quick content hash for matched files")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress indicator")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
