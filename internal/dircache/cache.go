// Package dircache stores recent directory listings, bounded by a maximum number of directories
// and a time-to-live. Expiration is checked when an entry is read, the capacity is enforced on insertion.
package dircache

import (
	"sync"
	"time"

	"github.com/tidwall/tinylru"
)

// Entry is a directory entry as returned by a listing.
type Entry struct {
	Name  string
	IsDir bool
}

// ListingInfo describes how a listing was read.
type ListingInfo struct {
	Limit int  //maximum number of entries read, 0 if unknown
	Stat  bool //entry kinds were detected
}

type cacheEntry struct {
	dir        string
	items      []Entry
	info       ListingInfo
	insertedAt time.Time
}

// A Cache maps absolute directory paths to their most recent listing. The recency order is maintained by
// the underlying LRU, the most recently used entry is the last to be evicted.
type Cache struct {
	lock       sync.Mutex
	lru        tinylru.LRU
	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

func New(ttl time.Duration, maxEntries int) *Cache {
	c := &Cache{
		now: time.Now,
	}
	c.setLimits(ttl, maxEntries)
	return c
}

// Get returns a copy of the listing of dir if it is present and not older than the TTL.
// Expired entries are removed.
func (c *Cache) Get(dir string) ([]Entry, bool) {
	items, _, ok := c.Lookup(dir)
	return items, ok
}

// Lookup is like Get but also returns how the listing was read.
func (c *Cache) Lookup(dir string) ([]Entry, ListingInfo, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.maxEntries <= 0 {
		return nil, ListingInfo{}, false
	}

	v, ok := c.lru.Peek(dir)
	if !ok {
		return nil, ListingInfo{}, false
	}
	entry := v.(*cacheEntry)

	if c.now().Sub(entry.insertedAt) > c.ttl {
		c.lru.Delete(dir)
		return nil, ListingInfo{}, false
	}

	//promote
	c.lru.Get(dir)

	return copyEntries(entry.items), entry.info, true
}

// Insert replaces any existing listing of dir and evicts the least recently used entries
// if the cache is full.
func (c *Cache) Insert(dir string, items []Entry) {
	c.InsertListing(dir, items, ListingInfo{})
}

// InsertListing is like Insert but also records how the listing was read.
func (c *Cache) InsertListing(dir string, items []Entry, info ListingInfo) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.maxEntries <= 0 {
		return
	}

	c.lru.Delete(dir)
	c.lru.Set(dir, &cacheEntry{
		dir:        dir,
		items:      copyEntries(items),
		info:       info,
		insertedAt: c.now(),
	})
}

// Covers reports whether a listing of count entries read as described by info can serve a read of at most
// limit entries. A listing shorter than its limit holds the whole directory.
func (info ListingInfo) Covers(count int, limit int, stat bool) bool {
	if info.Stat != stat {
		return false
	}
	return info.Limit >= limit || count < info.Limit
}

// UpdateLimits changes the TTL and the capacity in place, the least recently used entries are evicted
// until the new capacity is respected. The insertion times of the remaining entries are not modified.
func (c *Cache) UpdateLimits(ttl time.Duration, maxEntries int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.setLimits(ttl, maxEntries)
}

func (c *Cache) setLimits(ttl time.Duration, maxEntries int) {
	c.ttl = ttl
	c.maxEntries = maxEntries

	if maxEntries <= 0 {
		//the LRU treats non-positive sizes as its default size.
		c.purge()
		return
	}
	c.lru.Resize(maxEntries)
}

// Len returns the number of stored directories, expired entries included.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.maxEntries <= 0 {
		return 0
	}
	return c.lru.Len()
}

// Dirs returns the stored directories, the most recently used first.
func (c *Cache) Dirs() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	var dirs []string
	if c.maxEntries <= 0 || c.lru.Len() == 0 {
		return dirs
	}

	c.lru.Range(func(key, _ interface{}) bool {
		dirs = append(dirs, key.(string))
		return true
	})
	return dirs
}

func (c *Cache) purge() {
	if c.lru.Len() == 0 {
		return
	}
	var keys []interface{}
	c.lru.Range(func(key, _ interface{}) bool {
		keys = append(keys, key)
		return true
	})
	for _, key := range keys {
		c.lru.Delete(key)
	}
}

func copyEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	return append([]Entry(nil), entries...)
}
