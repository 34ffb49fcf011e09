package cache

import (
	"time"
)

// TTLWriter 为写入注入默认有效期，并按 Store 的时钟计算剩余有效期，供 HTTP 层复用。
type TTLWriter struct {
	store      *Store
	defaultTTL time.Duration
}

// NewTTLWriter 构造带默认 TTL 的写入器。
func NewTTLWriter(store *Store, defaultTTL time.Duration) TTLWriter {
	return TTLWriter{
		store:      store,
		defaultTTL: defaultTTL,
	}
}

// Put 使用默认 TTL 写入。
func (w TTLWriter) Put(key string, value Value) bool {
	return w.PutFor(key, value, w.defaultTTL)
}

// PutFor 使用显式 TTL 写入，语义与 Store.Put 相同。
func (w TTLWriter) PutFor(key string, value Value, ttl time.Duration) bool {
	if w.store == nil {
		return false
	}
	return w.store.Put(key, value, ttl)
}

// Remaining 返回条目剩余有效期；永久条目返回 -1，已过期返回 0。
// 与过期判断使用同一个时钟。
func (w TTLWriter) Remaining(entry Entry) time.Duration {
	if entry.IsPermanent() {
		return -1
	}
	left := entry.ExpiresAt().Sub(w.now())
	if left < 0 {
		return 0
	}
	return left
}

func (w TTLWriter) now() time.Time {
	if w.store != nil {
		return w.store.now()
	}
	return time.Now()
}
