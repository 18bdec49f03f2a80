package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scriptscan/internal/adapter/cache"
	"scriptscan/internal/adapter/source"
	"scriptscan/internal/domain"
	"scriptscan/internal/port"
)

// ProgressFunc is called after each file with the number processed so far.
type ProgressFunc func(processed, total int, file string)

// ScanUseCase scans a source tree, reusing stored reports for content it has
// already seen.
type ScanUseCase struct {
	store     port.ReportStore
	walker    port.FileWalker
	resolver  port.ContentResolver
	reports   *cache.ReportCache
	logger    *slog.Logger
	directive string
}

// ScanOptions configures a ScanUseCase.
type ScanOptions struct {
	Directive string
	Cache     *cache.ReportCache // optional
	Logger    *slog.Logger
}

// NewScanUseCase creates a new scan use case.
func NewScanUseCase(
	store port.ReportStore,
	walker port.FileWalker,
	resolver port.ContentResolver,
	opts ScanOptions,
) *ScanUseCase {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanUseCase{
		store:     store,
		walker:    walker,
		resolver:  resolver,
		reports:   opts.Cache,
		logger:    logger,
		directive: opts.Directive,
	}
}

// ScanResult contains the results of a scan.
type ScanResult struct {
	FilesScanned int
	FilesCached  int
	FilesDeleted int
	Unterminated int
	Reports      []domain.Report
	Errors       []string
}

// pruner is implemented by stores that can drop unreferenced reports.
type pruner interface {
	PruneReports() (int, error)
}

// Scan scans every file the walker finds under root. The resolver must
// resolve the walker's root-relative paths.
func (u *ScanUseCase) Scan(ctx context.Context, root string, progress ProgressFunc) (*ScanResult, error) {
	result := &ScanResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existing, err := u.store.ListSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list known sources: %w", err)
	}
	known := make(map[string]domain.Source, len(existing))
	for _, src := range existing {
		known[src.Path] = src
	}

	seen := make(map[string]bool, len(files))
	totalLines := 0

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("scan interrupted: %w", err)
		}
		seen[file.Path] = true

		report, cached, err := u.scanFile(file, known[file.Path])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to scan %s: %v", file.Path, err))
			u.logger.Warn("scan failed", "path", file.Path, "err", err)
		} else {
			if cached {
				result.FilesCached++
			} else {
				result.FilesScanned++
			}
			if report.Unterminated {
				result.Unterminated++
				u.logger.Warn("unterminated comment", "path", file.Path)
			}
			totalLines += report.Lines
			result.Reports = append(result.Reports, report)
		}

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	// Forget files that no longer exist
	for path := range known {
		if seen[path] {
			continue
		}
		if err := u.store.DeleteSource(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	if p, ok := u.store.(pruner); ok {
		pruned, err := p.PruneReports()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to prune reports: %v", err))
		} else if pruned > 0 {
			u.logger.Debug("pruned reports", "count", pruned)
		}
	}

	stats := domain.Stats{
		TotalSources: len(result.Reports),
		TotalLines:   totalLines,
		Unterminated: result.Unterminated,
	}
	if err := u.store.UpdateStats(stats); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	return result, nil
}

// scanFile returns the report for one file and whether it was reused.
func (u *ScanUseCase) scanFile(file port.FileInfo, prev domain.Source) (domain.Report, bool, error) {
	src, err := source.Open(u.resolver, file.Path)
	if err != nil {
		return domain.Report{}, false, err
	}
	digest := src.Digest()

	report, ok := u.lookup(digest)
	if ok {
		src.Close()
		report.Path = file.Path
		u.logger.Debug("reused report", "path", file.Path, "digest", digest)
	} else {
		report = ScanSource(src, u.directive)
		report.Path = file.Path
		if err := u.store.PutReport(report); err != nil {
			return domain.Report{}, false, fmt.Errorf("failed to store report: %w", err)
		}
		if u.reports != nil {
			u.reports.Put(report)
		}
		u.logger.Debug("scanned", "path", file.Path, "lines", report.Lines)
	}

	if prev.Digest != digest {
		err := u.store.PutSource(domain.Source{
			Path:    file.Path,
			Digest:  digest,
			ModTime: time.Unix(file.ModTime, 0),
		})
		if err != nil {
			return domain.Report{}, false, fmt.Errorf("failed to store source: %w", err)
		}
	}

	return report, ok, nil
}

func (u *ScanUseCase) lookup(digest string) (domain.Report, bool) {
	if u.reports != nil {
		if report, ok := u.reports.Get(digest); ok {
			return report, true
		}
	}
	report, err := u.store.GetReport(digest)
	if err != nil {
		if !errors.Is(err, port.ErrNotStored) {
			u.logger.Warn("report lookup failed", "digest", digest, "err", err)
		}
		return domain.Report{}, false
	}
	if u.reports != nil {
		u.reports.Put(report)
	}
	return report, true
}
