package metadata

import (
	"fmt"
	"testing"
	"time"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache[T any](ttl time.Duration, maxItems int) (*Cache[T], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache[T](ttl, maxItems)
	c.now = clock.now
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	cache, _ := newTestCache[[]tmdb.Payload](time.Minute, 10)
	defer cache.Close()

	cache.Set("trending:movie", []tmdb.Payload{{"title": "Dune"}})

	got, ok := cache.Get("trending:movie")
	if !ok || len(got) != 1 || got[0].Title() != "Dune" {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if _, ok := cache.Get("trending:tv"); ok {
		t.Error("expected missing key to miss")
	}
}

func TestCache_Expiry(t *testing.T) {
	cache, clock := newTestCache[string](time.Minute, 10)
	defer cache.Close()

	cache.Set("k", "v")
	clock.advance(59 * time.Second)
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("expected entry before TTL")
	}

	age, ok := cache.Age("k")
	if !ok || age != 59*time.Second {
		t.Errorf("Age() = %v, %v", age, ok)
	}

	clock.advance(time.Second)
	if _, ok := cache.Get("k"); ok {
		t.Error("expected entry to expire at TTL")
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	cache, _ := newTestCache[int](time.Minute, 10)
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Delete("a")

	if _, ok := cache.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", cache.Len())
	}
}

func TestCache_EvictsSoonestExpiring(t *testing.T) {
	cache, clock := newTestCache[int](time.Minute, 3)
	defer cache.Close()

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i)
		clock.advance(time.Second)
	}
	cache.Set("k3", 3)

	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
	if _, ok := cache.Get("k0"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := cache.Get("k3"); !ok {
		t.Error("expected newest entry to be kept")
	}
}

func TestCache_EvictionPrefersExpired(t *testing.T) {
	cache, clock := newTestCache[int](time.Minute, 2)
	defer cache.Close()

	cache.Set("old", 0)
	clock.advance(2 * time.Minute)
	cache.Set("fresh", 1)
	cache.Set("newer", 2)

	if _, ok := cache.Get("fresh"); !ok {
		t.Error("expected live entry to survive while an expired one can go")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCache_Defaults(t *testing.T) {
	cache := NewCache[int](0, 0)
	defer cache.Close()

	if cache.ttl != defaultCacheTTL || cache.maxItems != defaultCacheMaxItems {
		t.Errorf("defaults = %v/%d", cache.ttl, cache.maxItems)
	}
	cache.Close()
}
