package index

import (
	"encoding/json"
	"errors"
	"strings"

	"mxdocs/internal/domain/content"

	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

// Filter selects records the way a catalog page asks for them.
// An empty Category matches every record.
type Filter struct {
	Category     string
	FeaturedOnly bool
}

func (f Filter) match(r content.Record) bool {
	if f.FeaturedOnly && !r.Featured {
		return false
	}
	return f.Category == "" || r.HasCategory(f.Category)
}

func (s *Store) Get(slug string) (content.Record, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.Record{}, ErrNotFound
	}
	var r content.Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bRecord)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// Query returns matching records in content order.
func (s *Store) Query(f Filter) ([]content.Record, error) {
	cat := strings.ToLower(strings.TrimSpace(f.Category))

	out := make([]content.Record, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		recB := tx.Bucket(bRecord)
		if recB == nil {
			return nil
		}

		var idx *bolt.Bucket
		if cat == "" {
			idx = tx.Bucket(bSeq)
		} else if parent := tx.Bucket(bIdxCat); parent != nil {
			idx = parent.Bucket([]byte(cat))
		}
		if idx == nil {
			return nil
		}

		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromOrdinalSlugKey(k)
			if slug == "" {
				continue
			}
			v := recB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var r content.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			if !f.match(r) {
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// Categories lists every indexed category in byte order.
func (s *Store) Categories() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIdxCat)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// RenderHash returns the stored fingerprint for outPath or ErrNotFound.
func (s *Store) RenderHash(outPath string) (string, error) {
	var hash string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bRender)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(outPath))
		if v == nil {
			return ErrNotFound
		}
		hash = string(v)
		return nil
	})
	return hash, err
}
