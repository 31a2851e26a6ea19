package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = (%q, %v), want (alpha, true)", got, ok)
	}

	// Overwrite keeps a single entry
	c.Set("a", "beta")
	got, _ = c.Get("a")
	if got != "beta" {
		t.Errorf("Get(a) after overwrite = %q, want beta", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}

	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be cached")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 50*time.Millisecond)

	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit before TTL")
	}

	time.Sleep(75 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after TTL")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry still counted, Size() = %d", c.Size())
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting a missing key is a no-op
	c.Delete("missing")
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 50*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(75 * time.Millisecond)
	c.Set("c", 3)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Errorf("CleanExpired() = %d, want 2", cleaned)
	}
	if c.Size() != 1 {
		t.Errorf("Size() after cleanup = %d, want 1", c.Size())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("fresh entry removed by cleanup")
	}
}

func TestManagerCleanupLifecycle(t *testing.T) {
	c := NewLRUCache[int](10, 20*time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(30 * time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Errorf("expected cleanup to remove expired entry, Size() = %d", c.Size())
	}
}
