package weather

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// OpenWeatherMap refreshes current conditions roughly every ten minutes.
	CacheTTL     = 10 * time.Minute
	cacheCleanup = 20 * time.Minute
)

// Cache holds response bodies keyed by units and city. A nil *Cache is valid
// and never hits.
type Cache struct {
	cache *cache.Cache
}

func NewCache() *Cache {
	return &Cache{
		cache: cache.New(CacheTTL, cacheCleanup),
	}
}

func cacheKey(units Units, city string) string {
	return string(units) + "|" + strings.ToLower(strings.TrimSpace(city))
}

func (c *Cache) Get(units Units, city string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	cached, found := c.cache.Get(cacheKey(units, city))
	if !found {
		return nil, false
	}
	data, ok := cached.([]byte)
	return data, ok
}

func (c *Cache) Set(units Units, city string, data []byte) {
	if c == nil {
		return
	}
	c.cache.Set(cacheKey(units, city), data, cache.DefaultExpiration)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

// LoadCache reads a cache previously written by Save. A missing file yields an
// empty cache; expired entries are skipped.
func LoadCache(path string) (*Cache, error) {
	c := NewCache()
	err := c.cache.LoadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return c, fmt.Errorf("Failed to load cache file %s: %w", path, err)
	}
	return c, nil
}

func (c *Cache) Save(path string) error {
	if c == nil {
		return nil
	}
	c.cache.DeleteExpired()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("Failed to create cache dir: %w", err)
	}
	if err := c.cache.SaveFile(path); err != nil {
		return fmt.Errorf("Failed to save cache file %s: %w", path, err)
	}
	return nil
}
