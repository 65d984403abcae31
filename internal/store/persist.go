package store

import (
	"encoding/json"
	"fmt"
	"time"

	"boardsync/internal/record"

	"go.etcd.io/bbolt"
)

// Cache persists per-room record snapshots in a bbolt file so a session can
// render last-known content before the first server snapshot arrives.
type Cache struct {
	db *bbolt.DB
}

// OpenCache opens (or creates) the cache file at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// SaveRoom replaces the cached snapshot for a room.
func (c *Cache) SaveRoom(room string, recs []record.Record) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(room)) != nil {
			if err := tx.DeleteBucket([]byte(room)); err != nil {
				return err
			}
		}

		b, err := tx.CreateBucket([]byte(room))
		if err != nil {
			return err
		}

		for _, r := range recs {
			buf, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal record %s: %w", r.ID, err)
			}
			if err := b.Put([]byte(r.ID), buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadRoom returns the cached snapshot for a room, or nil when none exists.
func (c *Cache) LoadRoom(room string) ([]record.Record, error) {
	var recs []record.Record
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(room))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var r record.Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal cached record: %w", err)
			}
			recs = append(recs, r)
			return nil
		})
	})
	return recs, err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
