package port

import (
	"errors"

	"scriptscan/internal/domain"
)

// ReportStore persists scan reports keyed by content digest and remembers
// which digest each source path had when it was last scanned.
type ReportStore interface {
	PutReport(report domain.Report) error

	GetReport(digest string) (domain.Report, error)

	PutSource(src domain.Source) error

	GetSource(path string) (domain.Source, error)

	DeleteSource(path string) error

	ListSources() ([]domain.Source, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	Close() error
}

// ErrNotStored is returned by ReportStore lookups that miss.
var ErrNotStored = errors.New("not stored")
