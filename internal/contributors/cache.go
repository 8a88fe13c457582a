package contributors

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Cache persists the contributor list as a single JSON file holding
// {data, timestamp}. It mirrors a one-key local-storage entry: one writer,
// no schema versioning, last write wins.
type Cache struct {
	path string
	mu   sync.Mutex
}

type cacheEnvelope struct {
	Data      []Contributor `json:"data"`
	Timestamp int64         `json:"timestamp"` // unix milliseconds
}

// NewCache creates a cache backed by the file at path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Read returns the cached list and its write time. ok is false when no
// usable cache entry exists; staleness is the caller's concern.
func (c *Cache) Read() (data []Contributor, writtenAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, time.Time{}, false
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, time.Time{}, false
	}
	if len(envelope.Data) == 0 {
		return nil, time.Time{}, false
	}

	return envelope.Data, time.UnixMilli(envelope.Timestamp), true
}

// Write replaces the cache entry with data and a fresh timestamp.
func (c *Cache) Write(data []Contributor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.Marshal(cacheEnvelope{
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal contributor cache: %w", err)
	}

	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write contributor cache: %w", err)
	}

	return nil
}
