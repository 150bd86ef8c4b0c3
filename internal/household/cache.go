package household

import (
	"log"
	"os"
	"sync"
	"time"

	domain "gohousehold/domain/household"
	"gohousehold/internal/errors"

	"golang.org/x/sync/singleflight"
)

// Cache keeps one loaded table per file and reloads it when the file's modification
// time changes. Concurrent misses share a single load.
type Cache struct {
	path   string
	schema domain.Schema

	mu      sync.RWMutex
	shaper  *Shaper
	modTime time.Time
	loads   int

	group singleflight.Group
}

// NewCache creates a cache for one data file
func NewCache(path string, schema domain.Schema) *Cache {
	return &Cache{path: path, schema: schema}
}

// Path returns the cached file path
func (c *Cache) Path() string {
	return c.path
}

// Shaper returns a shaper over the current table, loading or reloading as needed
func (c *Cache) Shaper() (*Shaper, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(c.path)
		}
		return nil, errors.ParseError("failed to stat "+c.path, err)
	}

	c.mu.RLock()
	if c.shaper != nil && c.modTime.Equal(info.ModTime()) {
		shaper := c.shaper
		c.mu.RUnlock()
		return shaper, nil
	}
	c.mu.RUnlock()

	v, err, shared := c.group.Do(c.path, func() (interface{}, error) {
		return c.reload(info.ModTime())
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("[Cache] Shared in-flight load of %s", c.path)
	}
	return v.(*Shaper), nil
}

// Table returns the current table, loading or reloading as needed
func (c *Cache) Table() (*domain.Table, error) {
	shaper, err := c.Shaper()
	if err != nil {
		return nil, err
	}
	return shaper.Table(), nil
}

// Loads reports how many times the file has been read
func (c *Cache) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}

func (c *Cache) reload(modTime time.Time) (*Shaper, error) {
	start := time.Now()
	table, err := Load(c.path, c.schema)
	if err != nil {
		log.Printf("[Cache] FAILED - loading %s: %v", c.path, err)
		return nil, err
	}
	shaper, err := NewShaper(table, c.schema)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.shaper = shaper
	c.modTime = modTime
	c.loads++
	c.mu.Unlock()

	log.Printf("[Cache] Cached %s in %.2fms", c.path, float64(time.Since(start).Nanoseconds())/1e6)
	return shaper, nil
}
