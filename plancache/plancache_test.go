package plancache

import "testing"

func TestCacheGetPutHit(t *testing.T) {
	c := New(Config{Enabled: true, Capacity: 2})
	if _, ok := c.Get("a", "postgres"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Put("a", "postgres", 1)
	v, ok := c.Get("a", "postgres")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := c.Get("a", "sqlite"); ok {
		t.Fatalf("expected miss for different dialect key")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(Config{Enabled: true, Capacity: 2})
	c.Put("a", "postgres", 1)
	c.Put("b", "postgres", 2)
	if _, ok := c.Get("a", "postgres"); !ok {
		t.Fatalf("expected a to be present")
	}
	c.Put("c", "postgres", 3)
	if _, ok := c.Get("b", "postgres"); ok {
		t.Fatalf("expected b to be evicted as least recently used")
	}
	if _, ok := c.Get("a", "postgres"); !ok {
		t.Fatalf("expected a to survive eviction (recently used)")
	}
	if _, ok := c.Get("c", "postgres"); !ok {
		t.Fatalf("expected c to be present")
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestCacheDisabledIsNoop(t *testing.T) {
	c := New(Config{Enabled: false, Capacity: 10})
	c.Put("a", "postgres", 1)
	if _, ok := c.Get("a", "postgres"); ok {
		t.Fatalf("expected no caching when disabled")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestCacheConfigureShrinksCapacity(t *testing.T) {
	c := New(Config{Enabled: true, Capacity: 10})
	c.Put("a", "postgres", 1)
	c.Put("b", "postgres", 2)
	c.Put("c", "postgres", 3)
	c.Configure(Config{Enabled: true, Capacity: 1})
	if got := c.Len(); got != 1 {
		t.Fatalf("Len() after shrink = %d, want 1", got)
	}
}

func TestCacheZeroValueUsable(t *testing.T) {
	var c Cache
	c.Put("a", "postgres", 1)
	v, ok := c.Get("a", "postgres")
	if !ok || v != 1 {
		t.Fatalf("zero-value Cache Get/Put failed: %v, %v", v, ok)
	}
}
