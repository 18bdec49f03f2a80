package memstore

import (
	"fmt"
	"sync"

	"scriptscan/internal/domain"
	"scriptscan/internal/port"
)

type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
	sources map[string]domain.Source
	stats   domain.Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]domain.Report),
		sources: make(map[string]domain.Source),
	}
}

func (s *MemoryStore) PutReport(report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.Digest] = report
	return nil
}

func (s *MemoryStore) GetReport(digest string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[digest]
	if !ok {
		return domain.Report{}, fmt.Errorf("report %s: %w", digest, port.ErrNotStored)
	}
	return report, nil
}

func (s *MemoryStore) PutSource(src domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.Path] = src
	return nil
}

func (s *MemoryStore) GetSource(path string) (domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[path]
	if !ok {
		return domain.Source{}, fmt.Errorf("source %s: %w", path, port.ErrNotStored)
	}
	return src, nil
}

func (s *MemoryStore) DeleteSource(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, path)
	return nil
}

func (s *MemoryStore) ListSources() ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *MemoryStore) GetStats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

func (s *MemoryStore) UpdateStats(stats domain.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// MemoryResolver serves script text from a map, keyed by identifier.
type MemoryResolver struct {
	mu    sync.RWMutex
	files map[string]string
}

func NewMemoryResolver(files map[string]string) *MemoryResolver {
	m := make(map[string]string, len(files))
	for id, text := range files {
		m[id] = text
	}
	return &MemoryResolver{files: m}
}

func (r *MemoryResolver) Put(id, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[id] = text
}

func (r *MemoryResolver) Resolve(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.files[id]
	if !ok {
		return "", fmt.Errorf("%s: %w", id, port.ErrNotFound)
	}
	return text, nil
}
