package overrides

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// The two catalog preference blobs follow the same persistence discipline
// as the override store: one local JSON file each, rewritten whole behind a
// mutex with an atomic rename.

// CustomerList holds the extra customer tiers the operator quotes beyond
// the three shipped ones.
type CustomerList struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	names []string
}

func LoadCustomerList(path string, logger *zap.Logger) *CustomerList {
	c := &CustomerList{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read extra customers blob, starting empty",
				zap.String("path", path),
				zap.Error(err))
		}
		return c
	}
	if err := json.Unmarshal(data, &c.names); err != nil {
		logger.Warn("Extra customers blob is malformed, starting empty",
			zap.String("path", path),
			zap.Error(err))
		c.names = nil
	}
	return c
}

func (c *CustomerList) All() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Replace swaps the whole list and persists it.
func (c *CustomerList) Replace(names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = names
	return writeBlob(c.path, c.names)
}

// SizeCatalog holds the operator-added sizes per level, merged with the
// base table's sizes when listing.
type SizeCatalog struct {
	path   string
	logger *zap.Logger

	mu    sync.RWMutex
	sizes map[string][]string
}

func LoadSizeCatalog(path string, logger *zap.Logger) *SizeCatalog {
	s := &SizeCatalog{path: path, logger: logger, sizes: make(map[string][]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read custom sizes blob, starting empty",
				zap.String("path", path),
				zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.sizes); err != nil {
		logger.Warn("Custom sizes blob is malformed, starting empty",
			zap.String("path", path),
			zap.Error(err))
		s.sizes = make(map[string][]string)
	}
	if s.sizes == nil {
		s.sizes = make(map[string][]string)
	}
	return s
}

func (s *SizeCatalog) ForLevel(level string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.sizes[level]))
	copy(out, s.sizes[level])
	return out
}

// Replace swaps the sizes for one level and persists the catalog.
func (s *SizeCatalog) Replace(level string, sizes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sizes) == 0 {
		delete(s.sizes, level)
	} else {
		s.sizes[level] = sizes
	}
	return writeBlob(s.path, s.sizes)
}

func writeBlob(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
