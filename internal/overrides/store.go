// Package overrides keeps the operator-entered price corrections that win
// over the shipped base price table. The whole store lives in one local
// JSON blob: composite key -> bucket label -> amount. Every mutation
// rewrites the blob through a temp file and an atomic rename, so a crash
// mid-write can lose at most the change in flight, never the rest of the
// store.
package overrides

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"sync"

	"go.uber.org/zap"
)

type Store struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]map[string]float64
}

// Load reads the persisted blob. A missing or malformed file means "no
// overrides yet"; the caller always gets a usable store.
func Load(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:    path,
		logger:  logger,
		entries: make(map[string]map[string]float64),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read override blob, starting empty",
				zap.String("path", path),
				zap.Error(err))
		}
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.Warn("Override blob is malformed, starting empty",
			zap.String("path", path),
			zap.Error(err))
		s.entries = make(map[string]map[string]float64)
	}
	if s.entries == nil {
		s.entries = make(map[string]map[string]float64)
	}
	return s
}

// Get returns the override for one key+bucket cell, if recorded.
func (s *Store) Get(key, bucket string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	v, ok := buckets[bucket]
	return v, ok
}

// Set records an override, or removes it when value is nil or NaN (the cell
// then reverts to the base table on the next lookup). The whole store is
// re-persisted before Set returns.
func (s *Store) Set(key, bucket string, value *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil || math.IsNaN(*value) {
		if buckets, ok := s.entries[key]; ok {
			delete(buckets, bucket)
			if len(buckets) == 0 {
				delete(s.entries, key)
			}
		}
	} else {
		buckets, ok := s.entries[key]
		if !ok {
			buckets = make(map[string]float64)
			s.entries[key] = buckets
		}
		buckets[bucket] = *value
	}

	return s.persistLocked()
}

// Len reports the number of keys carrying at least one override.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) persistLocked() error {
	return writeBlob(s.path, s.entries)
}
