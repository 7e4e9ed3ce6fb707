package parser

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	size    int64
	modTime time.Time
	file    *File
}

// Cache keeps parsed records keyed by disk path. An entry is only served
// while the file's size and modification time are unchanged.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
}

func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 1
	}
	entries, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(path string, size int64, modTime time.Time) (*File, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	if entry.size != size || !entry.modTime.Equal(modTime) {
		c.entries.Remove(path)
		return nil, false
	}
	return entry.file.Clone(), true
}

func (c *Cache) Put(path string, size int64, modTime time.Time, file *File) {
	if c == nil || file == nil {
		return
	}
	c.entries.Add(path, cacheEntry{size: size, modTime: modTime, file: file.Clone()})
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
