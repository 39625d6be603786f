// Package index keeps ingested catalog records in a bbolt file so pages can
// query them by category and the featured flag in content order.
//
// Buckets:
//
//	record           slug -> record JSON
//	seq              ordinal+slug -> slug, every record in content order
//	idx_cat/<cat>    ordinal+slug -> slug, records carrying <cat>
//	render           output path -> render fingerprint, kept across Rebuild
package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultOpenTimeout = time.Second

// Store is safe for concurrent readers; Rebuild takes the bbolt write lock.
type Store struct {
	db   *bolt.DB
	path string
}

type OpenOptions struct {
	Path string // e.g. ".mxdocs/index.db"
	// Timeout bounds the wait for the file lock held by another process.
	// Zero means one second.
	Timeout time.Duration
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, fmt.Errorf("index: mkdir: %w", err)
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", opt.Path, err)
	}
	return &Store{db: db, path: opt.Path}, nil
}

// Path is the file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
