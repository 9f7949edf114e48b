package layout

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)

	if cache.Size() != 0 {
		t.Errorf("new cache should be empty, got size %d", cache.Size())
	}
	if cache.Stats().MaxSize != 100 {
		t.Errorf("expected max size 100, got %d", cache.Stats().MaxSize)
	}
	if NewCache(NewEngine(nil), -3).Stats().MaxSize != 0 {
		t.Error("negative max size should mean unlimited")
	}
}

func TestCacheHit(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)

	l1, err := cache.Get("hello world", 5, AlignLeft, WrapSpace)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	l2, err := cache.Get("hello world", 5, AlignLeft, WrapSpace)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(l1) != 2 || len(l2) != 2 || &l1[0] != &l2[0] {
		t.Error("second Get should return the cached layout")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", stats.HitRate)
	}
}

func TestCacheKeyIncludesParameters(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)

	mustGet(t, cache, "hello world", 5, AlignLeft, WrapSpace)
	mustGet(t, cache, "hello world", 6, AlignLeft, WrapSpace)
	mustGet(t, cache, "hello world", 5, AlignRight, WrapSpace)
	mustGet(t, cache, "hello world", 5, AlignLeft, WrapAny)

	if cache.Size() != 4 {
		t.Errorf("each parameter set should be cached separately, got %d", cache.Size())
	}
	if cache.Stats().Hits != 0 {
		t.Error("no lookup should have hit")
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)

	_, err := cache.Get("中", 1, AlignLeft, WrapSpace)
	if !errors.Is(err, ErrUnrenderable) {
		t.Fatalf("expected ErrUnrenderable, got %v", err)
	}
	if cache.Size() != 0 {
		t.Error("failed layouts must not be cached")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)

	mustGet(t, cache, "one", 10, AlignLeft, WrapSpace)
	mustGet(t, cache, "two", 10, AlignLeft, WrapSpace)

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", cache.Size())
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(NewEngine(nil), 5) // Small cache

	for i := 0; i < 10; i++ {
		mustGet(t, cache, fmt.Sprintf("line %d", i), 80, AlignLeft, WrapSpace)
		// Small delay to ensure different access times
		time.Sleep(time.Microsecond)
	}

	if cache.Size() != 5 {
		t.Errorf("cache should hold max size entries, got %d", cache.Size())
	}
	if cache.Stats().Evictions != 5 {
		t.Errorf("expected 5 evictions, got %d", cache.Stats().Evictions)
	}

	before := cache.Stats()
	mustGet(t, cache, "line 9", 80, AlignLeft, WrapSpace)
	if cache.Stats().Hits != before.Hits+1 {
		t.Error("newest entry should be kept")
	}
	mustGet(t, cache, "line 0", 80, AlignLeft, WrapSpace)
	if cache.Stats().Misses != before.Misses+1 {
		t.Error("oldest entry should have been evicted")
	}
}

func TestCacheSetEngine(t *testing.T) {
	cache := NewCache(NewEngine(nil), 100)
	mustGet(t, cache, "x", 10, AlignLeft, WrapSpace)

	engine := NewEngine(nil)
	cache.SetEngine(engine)
	if cache.Engine() != engine {
		t.Error("Engine should return the new engine")
	}
	if cache.Size() != 0 {
		t.Error("SetEngine should clear the cache")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(NewEngine(nil), 20)

	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				text := fmt.Sprintf("content %d", j%50)
				_, _ = cache.Get(text, 6, AlignCenter, WrapSpace)
				if j%25 == 0 {
					cache.Clear()
				}
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if cache.Size() > 20 {
		t.Errorf("cache exceeded max size: %d", cache.Size())
	}
}

func mustGet(t *testing.T, c *Cache, text string, width int, align Align, wrap WrapMode) Layout {
	t.Helper()
	l, err := c.Get(text, width, align, wrap)
	if err != nil {
		t.Fatalf("Get(%q): %v", text, err)
	}
	return l
}
