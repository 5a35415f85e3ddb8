package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
	"github.com/user/feelreel/internal/metrics"
)

// NewCache 创建进程内缓存，默认过期时间5分钟，清理间隔10分钟
func NewCache() *cache.Cache {
	return cache.New(5*time.Minute, 10*time.Minute)
}

type ttlEntry[T any] struct {
	value   T
	expires time.Time
}

// SearchCache 按条数淘汰的 LRU，条目超过 ttl 视为未命中
// 命中与未命中按 name 计入 feelreel_cache_{hits,misses}_total
type SearchCache[T any] struct {
	name    string
	entries *lru.Cache[string, ttlEntry[T]]
	ttl     time.Duration
	now     func() time.Time
}

// NewSearchCache size 为最大条数（至少 1）
func NewSearchCache[T any](name string, size int, ttl time.Duration) *SearchCache[T] {
	if size < 1 {
		size = 1
	}
	entries, _ := lru.New[string, ttlEntry[T]](size)
	return &SearchCache[T]{name: name, entries: entries, ttl: ttl, now: time.Now}
}

func (c *SearchCache[T]) Set(key string, value T) {
	c.entries.Add(key, ttlEntry[T]{value: value, expires: c.now().Add(c.ttl)})
}

// Get 过期条目在读取时移除
func (c *SearchCache[T]) Get(key string) (T, bool) {
	e, ok := c.entries.Get(key)
	if ok && c.now().After(e.expires) {
		c.entries.Remove(key)
		ok = false
	}
	metrics.RecordCache(c.name, ok)
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *SearchCache[T]) Delete(key string) {
	c.entries.Remove(key)
}

func (c *SearchCache[T]) Len() int {
	return c.entries.Len()
}
