package dircache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCache(ttl time.Duration, maxEntries int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := New(ttl, maxEntries)
	cache.now = clock.Now
	return cache, clock
}

func TestCache(t *testing.T) {

	listing := []Entry{{Name: "foo", IsDir: true}, {Name: "foo.txt"}}

	t.Run("get after insert", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)

		items, ok := cache.Get("/a")
		if !assert.True(t, ok) {
			return
		}
		assert.Equal(t, listing, items)
	})

	t.Run("returned listing is a copy", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)

		items, _ := cache.Get("/a")
		items[0].Name = "bar"

		items, _ = cache.Get("/a")
		assert.Equal(t, "foo", items[0].Name)
	})

	t.Run("miss", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)

		_, ok := cache.Get("/a")
		assert.False(t, ok)
	})

	t.Run("entry is returned until the TTL elapses", func(t *testing.T) {
		cache, clock := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)

		clock.Advance(time.Second)
		_, ok := cache.Get("/a")
		assert.True(t, ok)

		clock.Advance(time.Millisecond)
		_, ok = cache.Get("/a")
		assert.False(t, ok)
		assert.Zero(t, cache.Len())
	})

	t.Run("expired entries still count for capacity until read", func(t *testing.T) {
		cache, clock := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)
		clock.Advance(2 * time.Second)

		assert.Equal(t, 1, cache.Len())
	})

	t.Run("re-inserting a directory replaces its listing", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)
		cache.Insert("/a", listing[:1])

		items, _ := cache.Get("/a")
		assert.Equal(t, listing[:1], items)
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("least recently used entry is evicted", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)
		cache.Insert("/b", listing)

		//promote /a
		cache.Get("/a")

		cache.Insert("/c", listing)

		assert.Equal(t, []string{"/c", "/a"}, cache.Dirs())
		_, ok := cache.Get("/b")
		assert.False(t, ok)
	})

	t.Run("capacity is never exceeded", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 3)
		for _, dir := range []string{"/a", "/b", "/c", "/d", "/a", "/e", "/f"} {
			cache.Insert(dir, listing)
			assert.LessOrEqual(t, cache.Len(), 3)
		}
		assert.Equal(t, []string{"/f", "/e", "/a"}, cache.Dirs())
	})

	t.Run("zero capacity", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 0)
		cache.Insert("/a", listing)

		_, ok := cache.Get("/a")
		assert.False(t, ok)
		assert.Zero(t, cache.Len())
	})
}

func TestCacheUpdateLimits(t *testing.T) {

	listing := []Entry{{Name: "main.py"}}

	t.Run("shrinking evicts the least recently used entries", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 3)
		cache.Insert("/a", listing)
		cache.Insert("/b", listing)
		cache.Insert("/c", listing)

		cache.UpdateLimits(time.Second, 1)

		assert.Equal(t, []string{"/c"}, cache.Dirs())
	})

	t.Run("timestamps are not refreshed", func(t *testing.T) {
		cache, clock := newTestCache(10*time.Second, 3)
		cache.Insert("/a", listing)
		clock.Advance(2 * time.Second)

		cache.UpdateLimits(time.Second, 3)

		//still stored, expires on the next read
		assert.Equal(t, 1, cache.Len())
		_, ok := cache.Get("/a")
		assert.False(t, ok)
	})

	t.Run("growing keeps the entries", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 1)
		cache.Insert("/a", listing)

		cache.UpdateLimits(time.Second, 4)
		cache.Insert("/b", listing)

		assert.Equal(t, []string{"/b", "/a"}, cache.Dirs())
	})

	t.Run("zero capacity drops everything", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.Insert("/a", listing)

		cache.UpdateLimits(time.Second, 0)
		assert.Zero(t, cache.Len())

		cache.UpdateLimits(time.Second, 2)
		_, ok := cache.Get("/a")
		assert.False(t, ok)
	})
}

func TestListingInfo(t *testing.T) {
	listing := []Entry{{Name: "a"}, {Name: "b"}}

	t.Run("lookup returns the recorded info", func(t *testing.T) {
		cache, _ := newTestCache(time.Second, 2)
		cache.InsertListing("/a", listing, ListingInfo{Limit: 2, Stat: true})

		items, info, ok := cache.Lookup("/a")
		assert.True(t, ok)
		assert.Equal(t, listing, items)
		assert.Equal(t, ListingInfo{Limit: 2, Stat: true}, info)
	})

	testCases := []struct {
		name   string
		info   ListingInfo
		count  int
		limit  int
		stat   bool
		covers bool
	}{
		{"same limit", ListingInfo{Limit: 10, Stat: true}, 10, 10, true, true},
		{"smaller limit", ListingInfo{Limit: 10, Stat: true}, 10, 4, true, true},
		{"truncated listing, larger limit", ListingInfo{Limit: 2, Stat: true}, 2, 160, true, false},
		{"whole directory, larger limit", ListingInfo{Limit: 10, Stat: true}, 5, 160, true, true},
		{"other stat strategy", ListingInfo{Limit: 10, Stat: false}, 5, 10, true, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.covers, testCase.info.Covers(testCase.count, testCase.limit, testCase.stat))
		})
	}
}
