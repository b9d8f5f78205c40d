package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/i474232898/weather-mcp/internal/weather"
)

// CacheFileName is the name of the store file inside the cache directory.
const CacheFileName = "location_cache.json"

// LocationCache is a file-backed mapping from normalized location strings to
// provider location keys. Entries never expire. The whole mapping is stored as
// a single JSON object and rewritten on every Put.
//
// Within one process Put calls are serialized; across processes the last
// writer wins. Readers never observe a partially written file because Put
// replaces the file by rename.
type LocationCache struct {
	mu   sync.Mutex
	path string
}

// NewLocationCache creates a cache stored in dir. Nothing is created on disk
// until the first Put.
func NewLocationCache(dir string) *LocationCache {
	return &LocationCache{
		path: filepath.Join(dir, CacheFileName),
	}
}

// DefaultDir returns ~/.cache/weather.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "weather"), nil
}

// Path returns the location of the store file.
func (c *LocationCache) Path() string {
	return c.path
}

// NormalizeLocation lower-cases and trims a location for use as a cache key.
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// Get returns the cached key for location. A missing or unparseable store is
// a miss, and so is an entry with an empty key.
func (c *LocationCache) Get(location string) (string, bool) {
	entries, err := c.load()
	if err != nil {
		return "", false
	}
	key, ok := entries[NormalizeLocation(location)]
	return key, ok && key != ""
}

// Put stores key for location, creating the cache directory and store as
// needed. A corrupt store is replaced.
func (c *LocationCache) Put(location, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	entries, err := c.load()
	if err != nil {
		entries = make(map[string]string)
	}
	entries[NormalizeLocation(location)] = key

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal location cache: %w", err)
	}
	return writeFileAtomic(c.path, data)
}

// Clear deletes the store file.
func (c *LocationCache) Clear() (weather.ClearResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path)
	switch {
	case err == nil:
		return weather.Cleared, nil
	case errors.Is(err, os.ErrNotExist):
		return weather.AlreadyEmpty, nil
	default:
		return "", fmt.Errorf("remove location cache: %w", err)
	}
}

// load reads the whole store. A missing file yields an empty map.
func (c *LocationCache) load() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse location cache: %w", err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return entries, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".location_cache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write location cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close location cache: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod location cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace location cache: %w", err)
	}
	return nil
}
