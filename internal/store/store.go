// Package store remembers every address a search has already delivered, so
// repeated runs against the same output directory tree do not log a result twice.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Entry is what is kept per address. Private keys never reach the store.
type Entry struct {
	Pattern string    `json:"pattern"`
	Network string    `json:"network"`
	FoundAt time.Time `json:"found_at"`
}

type Store struct {
	mu sync.Mutex
	db *leveldb.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter: filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Put records addr unless it is already known. It reports whether addr was new.
func (s *Store) Put(addr string, e Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := []byte(addr)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	val, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	if err := s.db.Put(key, val, &opt.WriteOptions{Sync: true}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Has(addr string) (bool, error) {
	return s.db.Has([]byte(addr), nil)
}

// Get returns the entry for addr and false if it is unknown.
func (s *Store) Get(addr string) (Entry, bool, error) {
	val, err := s.db.Get([]byte(addr), nil)
	if err == leveldb.ErrNotFound {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, false, fmt.Errorf("entry %s: %w", addr, err)
	}
	return e, true, nil
}

// ForEach visits entries in address order. A non-nil error from fn stops the walk.
func (s *Store) ForEach(fn func(addr string, e Entry) error) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return fmt.Errorf("entry %s: %w", iter.Key(), err)
		}
		if err := fn(string(iter.Key()), e); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *Store) Count() (int, error) {
	n := 0
	err := s.ForEach(func(string, Entry) error {
		n++
		return nil
	})
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
