package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
	"scriptscan/internal/domain"
	"scriptscan/internal/port"
)

var (
	bucketReports = []byte("reports")
	bucketSources = []byte("sources")
	bucketStats   = []byte("stats")
	keyStats      = []byte("scan_stats")
)

// BoltStore persists scan reports in a bbolt database. Reports are keyed by
// content digest, so identical files share one entry; sources map a path to
// the digest it had when last scanned.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketReports, bucketSources, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type sourceMeta struct {
	Digest  string `json:"digest"`
	ModTime int64  `json:"mod_time"`
}

func (s *BoltStore) PutReport(report domain.Report) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(report)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketReports).Put([]byte(report.Digest), data)
	})
}

func (s *BoltStore) GetReport(digest string) (domain.Report, error) {
	var report domain.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketReports).Get([]byte(digest))
		if data == nil {
			return fmt.Errorf("report %s: %w", digest, port.ErrNotStored)
		}
		return json.Unmarshal(data, &report)
	})
	return report, err
}

func (s *BoltStore) PutSource(src domain.Source) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(sourceMeta{
			Digest:  src.Digest,
			ModTime: src.ModTime.Unix(),
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSources).Put([]byte(src.Path), data)
	})
}

func (s *BoltStore) GetSource(path string) (domain.Source, error) {
	var src domain.Source
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSources).Get([]byte(path))
		if data == nil {
			return fmt.Errorf("source %s: %w", path, port.ErrNotStored)
		}
		var meta sourceMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		src = domain.Source{
			Path:    path,
			Digest:  meta.Digest,
			ModTime: time.Unix(meta.ModTime, 0),
		}
		return nil
	})
	return src, err
}

func (s *BoltStore) DeleteSource(path string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSources).Delete([]byte(path))
	})
}

func (s *BoltStore) ListSources() ([]domain.Source, error) {
	var sources []domain.Source
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			var meta sourceMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			sources = append(sources, domain.Source{
				Path:    string(k),
				Digest:  meta.Digest,
				ModTime: time.Unix(meta.ModTime, 0),
			})
			return nil
		})
	})
	return sources, err
}

func (s *BoltStore) GetStats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyStats)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) UpdateStats(stats domain.Stats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyStats, data)
	})
}

// PruneReports deletes reports no source refers to any more.
func (s *BoltStore) PruneReports() (int, error) {
	pruned := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		live := make(map[string]struct{})
		err := tx.Bucket(bucketSources).ForEach(func(k, v []byte) error {
			var meta sourceMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			live[meta.Digest] = struct{}{}
			return nil
		})
		if err != nil {
			return err
		}

		reports := tx.Bucket(bucketReports)
		var dead [][]byte
		c := reports.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if _, ok := live[string(k)]; !ok {
				dead = append(dead, append([]byte(nil), k...))
			}
		}
		for _, k := range dead {
			if err := reports.Delete(k); err != nil {
				return err
			}
		}
		pruned = len(dead)
		return nil
	})
	return pruned, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
