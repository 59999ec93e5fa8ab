// ABOUTME: Persistent per-entity view preferences backed by BadgerDB
// ABOUTME: Keeps list sort selections and the last opened tab across restarts
package prefs

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

const (
	sortPrefix = "sort/"
	tabKey     = "ui/tab"
)

type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the preference store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory returns a store that forgets everything on Close.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) get(key string) (string, error) {
	var result []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	return string(result), err
}

// set stores value, or removes key when value is empty.
func (s *Store) set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if value == "" {
			return txn.Delete([]byte(key))
		}
		return txn.Set([]byte(key), []byte(value))
	})
}

// LoadSort returns the saved sort for entity, or "" when none was saved.
func (s *Store) LoadSort(entity string) (string, error) {
	return s.get(sortPrefix + entity)
}

func (s *Store) SaveSort(entity, sort string) error {
	return s.set(sortPrefix+entity, sort)
}

func (s *Store) LoadTab() (string, error) {
	return s.get(tabKey)
}

func (s *Store) SaveTab(entity string) error {
	return s.set(tabKey, entity)
}

// Sorts returns every saved sort keyed by entity name.
func (s *Store) Sorts() (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sortPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[string(item.Key()[len(sortPrefix):])] = string(value)
		}
		return nil
	})
	return out, err
}

// Reset forgets every preference.
func (s *Store) Reset() error {
	return s.db.DropAll()
}

func (s *Store) Close() error {
	return s.db.Close()
}
