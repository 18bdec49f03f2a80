package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"scriptscan/config"
	"scriptscan/internal/adapter/cache"
	"scriptscan/internal/adapter/fs"
	"scriptscan/internal/adapter/memstore"
	"scriptscan/internal/adapter/store"
	"scriptscan/internal/port"
	"scriptscan/internal/usecase"
)

var scanStrict bool

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory tree",
	Long: `Scan every matching file under the directory and report its line counts,
header comment directives and unterminated comments. Reports are cached in
.scriptscan/cache.db, keyed by content, so unchanged files are not read twice.

Examples:
  scriptscan scan .                   # Scan current directory
  scriptscan scan web --format json   # Scan a subdirectory, print JSON
  scriptscan scan . --strict          # Fail if any comment is left open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanStrict, "strict", false, "exit with an error when a file ends inside a comment")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	st, err := openReportStore(cfg, path)
	if err != nil {
		return err
	}
	defer st.Close()

	scanUC := usecase.NewScanUseCase(
		st,
		fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes),
		fs.NewResolver(path),
		usecase.ScanOptions{
			Directive: cfg.Scan.Directive,
			Cache:     cache.NewReportCache(cfg.Cache.MemoryEntries),
			Logger:    logger,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("scanning", "path", path)

	var progress usecase.ProgressFunc
	if cfg.Output.Progress && term.IsTerminal(int(os.Stderr.Fd())) {
		progress = newProgress()
	}

	result, err := scanUC.Scan(ctx, path, progress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if bs, ok := st.(*store.BoltStore); ok {
		// Record the schema only after a complete scan.
		if err := bs.Migrate(cfg); err != nil {
			return fmt.Errorf("failed to update schema info: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if done, err := writeStructured(out, cfg.Output.Format, result.Reports); done {
		if err != nil {
			return err
		}
	} else if err := printScanTable(out, result); err != nil {
		return err
	}

	for _, e := range result.Errors {
		logger.Warn(e)
	}

	if scanStrict && result.Unterminated > 0 {
		return fmt.Errorf("%d file(s) end inside a comment", result.Unterminated)
	}
	return nil
}

// openReportStore opens the persistent cache, or an in-memory store when
// caching is disabled. A stale cache is cleared or migrated first.
func openReportStore(cfg *config.Config, root string) (port.ReportStore, error) {
	if !cfg.Cache.Enabled {
		return memstore.NewMemoryStore(), nil
	}

	if err := config.EnsureDataDir(root); err != nil {
		return nil, fmt.Errorf("failed to create .scriptscan directory: %w", err)
	}

	st, err := store.NewBoltStore(config.CacheDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open report cache: %w", err)
	}

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}

	if migration.NeedsRebuild {
		logger.Info("clearing report cache", "reason", migration.Reason)
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear report cache: %w", err)
		}
	} else if migration.NeedsMigration {
		logger.Info("running schema migration", "reason", migration.Reason)
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, nil
}

func newProgress() usecase.ProgressFunc {
	var (
		bar       *progressbar.ProgressBar
		mu        sync.Mutex
		startTime time.Time
	)

	return func(processed, total int, file string) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Scanning[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)

		elapsed := time.Since(startTime)
		if processed > 0 && elapsed > 0 {
			rate := float64(processed) / elapsed.Seconds()
			eta := time.Duration(float64(total-processed)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Scanning[reset] ETA: %s", formatDuration(eta)))
		}
	}
}

func printScanTable(w io.Writer, result *usecase.ScanResult) error {
	t := newTable("PATH", "LINES", "CODE", "COMMENT", "BLANK", "FIRST", "DIRECTIVES")
	for _, r := range result.Reports {
		path := cell(r.Path)
		if r.Unterminated {
			path += " (unterminated)"
		}
		t.add(
			path,
			strconv.Itoa(r.Lines),
			strconv.Itoa(r.CodeLines),
			strconv.Itoa(r.CommentLines),
			strconv.Itoa(r.BlankLines),
			strconv.Itoa(r.FirstCodeLine),
			cell(strings.Join(r.Directives, ", ")),
		)
	}
	if err := t.render(w); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d scanned, %d cached, %d removed, %d unterminated, %d errors\n",
		result.FilesScanned, result.FilesCached, result.FilesDeleted, result.Unterminated, len(result.Errors))
	return err
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
