package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mxdocs/internal/domain/content"

	bolt "go.etcd.io/bbolt"
)

// Rebuild replaces all records and indices in one transaction. The render
// bucket survives so unchanged pages can be skipped by the next build.
func (s *Store) Rebuild(records []content.Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bRecord, bSeq, bIdxCat} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}

		recB, err := tx.CreateBucket(bRecord)
		if err != nil {
			return err
		}
		seqB, err := tx.CreateBucket(bSeq)
		if err != nil {
			return err
		}
		catB, err := tx.CreateBucket(bIdxCat)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bRender); err != nil {
			return err
		}

		for i, r := range records {
			slug := strings.TrimSpace(r.Slug)
			if slug == "" {
				continue
			}
			if recB.Get([]byte(slug)) != nil {
				return fmt.Errorf("index: duplicate slug %q", slug)
			}
			rb, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("index: encode %s: %w", slug, err)
			}
			if err := recB.Put([]byte(slug), rb); err != nil {
				return err
			}

			key := makeOrdinalSlugKey(uint64(i), slug)
			if err := seqB.Put(key, []byte(slug)); err != nil {
				return err
			}
			for _, cat := range r.Categories {
				if cat == "" {
					continue
				}
				sb, err := catB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte(slug)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) PutRenderHash(outPath, hash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bRender)
		if err != nil {
			return err
		}
		return b.Put([]byte(outPath), []byte(hash))
	})
}
