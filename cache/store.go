// Package cache keeps catalog list pages on disk so repeated browsing does
// not hit the API. Only raw responses are cached; browsing state never is.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/s0up4200/cinescope/catalog"
)

var bucketLists = []byte("lists")

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("cache is closed")

// entry is the on-disk record of one list page
type entry struct {
	StoredAt time.Time           `json:"stored_at"`
	Result   *catalog.ListResult `json:"result"`
}

// Store is a TTL cache of list pages backed by BoltDB
type Store struct {
	db     *bolt.DB
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the cache database at path. A non-positive ttl
// keeps entries forever.
func Open(path string, ttl time.Duration, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLists)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Store{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Get returns the cached page for key if it exists and has not expired
func (s *Store) Get(key string) (*catalog.ListResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketLists).Get([]byte(key)); v != nil {
			// Bolt memory is only valid inside the transaction
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Result == nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Ignoring unreadable cache entry")
		return nil, false
	}

	if s.ttl > 0 && s.now().Sub(e.StoredAt) > s.ttl {
		return nil, false
	}

	return e.Result, true
}

// Put stores result under key
func (s *Store) Put(key string, result *catalog.ListResult) error {
	data, err := json.Marshal(entry{StoredAt: s.now(), Result: result})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLists).Put([]byte(key), data)
	})
}

// Len returns the number of stored entries, expired ones included
func (s *Store) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = count(tx.Bucket(bucketLists))
		return nil
	})
	return n, err
}

// Purge removes every entry and returns how many were removed
func (s *Store) Purge() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		removed = count(tx.Bucket(bucketLists))
		if err := tx.DeleteBucket(bucketLists); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketLists)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}

// PurgeExpired removes entries older than the TTL
func (s *Store) PurgeExpired() (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	cutoff := s.now().Add(-s.ttl)
	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLists)

		// Deleting under a live cursor skips keys, so collect first
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil || e.StoredAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", err)
	}
	return removed, nil
}

func count(b *bolt.Bucket) int {
	var n int
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// Close releases the database file
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
