package nameparser

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/release-name-parser/internal/metrics"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

// resultCache keeps up to size parse results, evicting the oldest entry first.
type resultCache struct {
	mu    sync.RWMutex
	size  int
	items map[string]*ParseResult
	order []string

	group singleflight.Group
}

func newResultCache(size int) *resultCache {
	return &resultCache{
		size:  size,
		items: make(map[string]*ParseResult, size),
		order: make([]string, 0, size),
	}
}

func cacheKey(name string, showType guess.ShowType) string {
	return string(showType) + "|" + name
}

func (c *resultCache) get(key string) (*ParseResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.items[key]
	return res, ok
}

func (c *resultCache) put(key string, res *ParseResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		c.items[key] = res
		return
	}
	for len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.items[key] = res
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// load returns the cached result for key or runs fn once for all concurrent
// callers asking for the same key. Callers get their own copy.
func (c *resultCache) load(key string, fn func() (*ParseResult, error)) (*ParseResult, error) {
	if res, ok := c.get(key); ok {
		metrics.CacheHitsTotal.Inc()
		return res.Clone(), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if res, ok := c.get(key); ok {
			metrics.CacheHitsTotal.Inc()
			return res, nil
		}
		res, err := fn()
		if err != nil {
			return nil, err
		}
		c.put(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ParseResult).Clone(), nil
}
