package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/i474232898/weather-mcp/internal/weather"
)

func TestLocationCacheRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".cache", "weather")
	c := NewLocationCache(dir)

	if err := c.Put("Huntsville, AL", "331435"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CacheFileName))
	if err != nil {
		t.Fatalf("expected cache file to exist: %v", err)
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("cache file is not valid JSON: %v", err)
	}
	if stored["huntsville, al"] != "331435" {
		t.Fatalf("expected normalized entry, got %v", stored)
	}

	for _, loc := range []string{"Huntsville, AL", "huntsville, al", "  HUNTSVILLE, AL  "} {
		key, ok := c.Get(loc)
		if !ok || key != "331435" {
			t.Errorf("Get(%q): expected 331435, got %q (%v)", loc, key, ok)
		}
	}

	if _, ok := c.Get("NonExistent"); ok {
		t.Error("expected miss for unknown location")
	}
}

func TestLocationCacheLastWriteWins(t *testing.T) {
	c := NewLocationCache(t.TempDir())

	if err := c.Put("Paris", "623"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Put("paris ", "624"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Put("Berlin", "178087"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key, _ := c.Get("PARIS"); key != "624" {
		t.Errorf("expected 624, got %q", key)
	}
	if key, _ := c.Get("berlin"); key != "178087" {
		t.Errorf("expected 178087, got %q", key)
	}
}

func TestLocationCacheEmptyKeyIsMiss(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CacheFileName), []byte(`{"huntsville, al":""}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewLocationCache(dir)

	if key, ok := c.Get("Huntsville, AL"); ok {
		t.Fatalf("expected miss for empty key, got %q", key)
	}

	if err := c.Put("Berlin", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key, ok := c.Get("Berlin"); ok {
		t.Fatalf("expected miss for empty key, got %q", key)
	}
}

func TestLocationCacheMissingFile(t *testing.T) {
	c := NewLocationCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if key, ok := c.Get("Huntsville, AL"); ok {
		t.Fatalf("expected miss, got %q", key)
	}
}

func TestLocationCacheCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CacheFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewLocationCache(dir)

	if key, ok := c.Get("Huntsville, AL"); ok {
		t.Fatalf("expected miss on corrupt store, got %q", key)
	}

	// A write replaces the corrupt store.
	if err := c.Put("Huntsville, AL", "331435"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key, ok := c.Get("huntsville, al"); !ok || key != "331435" {
		t.Fatalf("expected 331435 after rewrite, got %q (%v)", key, ok)
	}
}

func TestLocationCacheClear(t *testing.T) {
	c := NewLocationCache(t.TempDir())
	if err := c.Put("Huntsville, AL", "331435"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := c.Clear()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != weather.Cleared {
		t.Fatalf("expected %q, got %q", weather.Cleared, res)
	}
	if _, err := os.Stat(c.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected store to be removed, stat err = %v", err)
	}

	res, err = c.Clear()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != weather.AlreadyEmpty {
		t.Fatalf("expected %q, got %q", weather.AlreadyEmpty, res)
	}
}

func TestLocationCachePutFailure(t *testing.T) {
	// A regular file where the cache directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewLocationCache(filepath.Join(blocker, "weather"))

	if err := c.Put("Huntsville, AL", "331435"); err == nil {
		t.Fatal("expected error when cache directory cannot be created")
	}
	if _, ok := c.Get("Huntsville, AL"); ok {
		t.Fatal("expected miss after failed put")
	}
}

func TestLocationCacheConcurrentPut(t *testing.T) {
	c := NewLocationCache(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Put(fmt.Sprintf("city-%d", i), fmt.Sprintf("%d", i))
			c.Get("city-0")
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		key, ok := c.Get(fmt.Sprintf("CITY-%d", i))
		if !ok || key != fmt.Sprintf("%d", i) {
			t.Errorf("city-%d: expected %d, got %q (%v)", i, i, key, ok)
		}
	}
}
