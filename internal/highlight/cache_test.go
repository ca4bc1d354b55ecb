package highlight

import "testing"

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)

	c.Set(1, "one")
	c.Set(2, "two")
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected 1 to be cached")
	}
	c.Set(3, "three")

	if _, ok := c.Get(2); ok {
		t.Error("2 should have been evicted")
	}
	if v, ok := c.Get(1); !ok || v != "one" {
		t.Errorf("Get(1) = %q, %v", v, ok)
	}
	if v, ok := c.Get(3); !ok || v != "three" {
		t.Errorf("Get(3) = %q, %v", v, ok)
	}
}

func TestCacheUpdateExisting(t *testing.T) {
	c := NewCache(2)
	c.Set(1, "a")
	c.Set(1, "b")

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if v, _ := c.Get(1); v != "b" {
		t.Errorf("Get(1) = %q, want b", v)
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(4)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestCacheKeySeparatesFields(t *testing.T) {
	if cacheKey("a", "bc", "x") == cacheKey("ab", "c", "x") {
		t.Error("keys should differ when field boundaries differ")
	}
	if cacheKey("go", "nord", "x") != cacheKey("go", "nord", "x") {
		t.Error("keys should be stable")
	}
}
