package geo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/muesli/cache2go"
)

// cache2go tables are process-global by name; the sequence keeps every
// Cached instance on its own table.
var cacheSeq uint64

// Cached memoizes another Resolver per IP for ttl.
type Cached struct {
	next  Resolver
	table *cache2go.CacheTable
	ttl   time.Duration
}

func NewCached(name string, next Resolver, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		table: cache2go.Cache(fmt.Sprintf("%s#%d", name, atomic.AddUint64(&cacheSeq, 1))),
		ttl:   ttl,
	}
}

func (c *Cached) Resolve(ctx context.Context, ip string) Location {
	if cached, err := c.table.Value(ip); err == nil {
		return cached.Data().(Location)
	}

	loc := c.next.Resolve(ctx, ip)
	c.table.Add(ip, c.ttl, loc)
	return loc
}
