package constraint

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type pairKey struct {
	x, y string
}

// Cached wraps c so repeated evaluations of the same (x, y) pair are served
// from an LRU cache. Predicates are pure, so results never go stale.
func Cached(c *Constraint, size int) (*Constraint, error) {
	cache, err := lru.New[pairKey, bool](size)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", c.Name, err)
	}

	inner := c.pred
	pred := func(x, y string) bool {
		key := pairKey{x, y}
		if ok, hit := cache.Get(key); hit {
			return ok
		}
		ok := inner(x, y)
		cache.Add(key, ok)
		return ok
	}
	return New(c.Name, c.X, c.Y, pred), nil
}
