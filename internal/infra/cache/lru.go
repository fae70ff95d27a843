package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a size-bounded cache without expiry. Values are evicted least
// recently used first once size is reached.
type LRU[T any] struct {
	c *lru.Cache[string, T]
}

// NewLRU creates an LRU holding at most size entries. A non-positive size
// falls back to 128.
func NewLRU[T any](size int) *LRU[T] {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[string, T](size)
	if err != nil {
		// only returned for size <= 0, ruled out above
		panic("cache: " + err.Error())
	}
	return &LRU[T]{c: c}
}

func (l *LRU[T]) Get(key string) (T, bool) { return l.c.Get(key) }

func (l *LRU[T]) Set(key string, value T) { l.c.Add(key, value) }

func (l *LRU[T]) Delete(key string) { l.c.Remove(key) }

// Len reports the number of cached entries.
func (l *LRU[T]) Len() int { return l.c.Len() }
