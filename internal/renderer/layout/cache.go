package layout

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

// Cache memoizes layouts with LRU eviction. Cached layouts are shared
// between callers and must not be modified.
type Cache struct {
	mu        sync.RWMutex
	entries   map[uint64]*cacheEntry
	engine    *Engine
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheKey struct {
	text  string
	width int
	align Align
	wrap  WrapMode
}

type cacheEntry struct {
	key        cacheKey
	layout     Layout
	lastAccess time.Time // For LRU eviction
}

// NewCache creates a layout cache.
// maxSize is the maximum number of layouts to keep (0 = unlimited).
func NewCache(engine *Engine, maxSize int) *Cache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Cache{
		entries: make(map[uint64]*cacheEntry),
		engine:  engine,
		maxSize: maxSize,
	}
}

// Get returns the layout of text, computing and storing it on a miss.
// Errors are not cached.
func (c *Cache) Get(text string, width int, align Align, wrap WrapMode) (Layout, error) {
	key := cacheKey{text: text, width: width, align: align, wrap: wrap}
	h := key.hash()

	c.mu.Lock()
	if e, ok := c.entries[h]; ok && e.key == key {
		e.lastAccess = time.Now()
		l := e.layout
		c.mu.Unlock()
		c.hits.Add(1)
		return l, nil
	}
	c.mu.Unlock()

	c.misses.Add(1)
	l, err := c.engine.Layout(text, width, align, wrap)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[h] = &cacheEntry{key: key, layout: l, lastAccess: time.Now()}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
	return l, nil
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
}

// evict removes the least recently used entries until under maxSize.
// Must be called with write lock held.
func (c *Cache) evict() {
	if c.maxSize <= 0 || len(c.entries) <= c.maxSize {
		return
	}

	type keyTime struct {
		hash uint64
		time time.Time
	}

	entries := make([]keyTime, 0, len(c.entries))
	for h, e := range c.entries {
		entries = append(entries, keyTime{h, e.lastAccess})
	}

	// Insertion sort; the cache is small.
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j].time.Before(entries[j-1].time) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}

	toRemove := len(entries) - c.maxSize
	for i := 0; i < toRemove; i++ {
		delete(c.entries, entries[i].hash)
	}
	c.evictions.Add(uint64(toRemove))
}

// Size returns the number of cached layouts.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	size := c.Size()
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// Engine returns the engine used to compute misses.
func (c *Cache) Engine() *Engine {
	return c.engine
}

// SetEngine replaces the engine and clears the cache.
func (c *Cache) SetEngine(engine *Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.entries = make(map[uint64]*cacheEntry)
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}

// hash computes FNV-1a over the layout parameters and the text.
func (k cacheKey) hash() uint64 {
	h := fnv.New64a()
	var hdr [18]byte
	binary.LittleEndian.PutUint64(hdr[0:8], uint64(len(k.text)))
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(k.width))
	hdr[16] = byte(k.align)
	hdr[17] = byte(k.wrap)
	h.Write(hdr[:])
	h.Write([]byte(k.text))
	return h.Sum64()
}
