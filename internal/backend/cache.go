package backend

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"
)

// Cache keeps backend reads for a short while. It is never authoritative:
// every successful write through the client bumps the generation, which
// orphans all entries cached before it.
type Cache struct {
	big        *bigcache.BigCache
	generation atomic.Uint64
}

func NewCache(ttl time.Duration) (*Cache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = ttl
	cfg.Verbose = false
	big, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise big cache")
	}
	return &Cache{big: big}, nil
}

func (c *Cache) key(userID, path string) string {
	return strconv.FormatUint(c.generation.Load(), 10) + "|" + userID + "|" + path
}

func (c *Cache) Get(userID, path string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	out, err := c.big.Get(c.key(userID, path))
	if err != nil {
		return nil, false
	}
	return out, true
}

func (c *Cache) Set(userID, path string, val []byte) error {
	if c == nil {
		return nil
	}
	return c.big.Set(c.key(userID, path), val)
}

// Invalidate drops every entry cached so far.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.generation.Add(1)
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.big.Close()
}
