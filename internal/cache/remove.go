package cache

import "time"

// Remove 删除 key 的数据与配置文件。数据文件删除后条目即从索引移除并扣减总量；
// 并发删除同一 key 时只有移出索引的那次调用返回 true。未被索引的残留文件也会被清理。
func (s *Store) Remove(key string) bool {
	if validateKey(key) != nil {
		return false
	}
	_, known := s.lookup(key)

	if err := removeFile(s.dataPath(key)); err != nil {
		s.fail("cache_remove_data", key, err)
		return false
	}
	evicted := known && s.evict(key)

	if err := removeFile(s.configPath(key)); err != nil {
		s.fail("cache_remove_config", key, err)
		return false
	}
	return evicted
}

// RemoveMany 逐个删除 keys。
func (s *Store) RemoveMany(keys ...string) {
	for _, key := range keys {
		s.Remove(key)
	}
}

// Contains 判断数据文件与配置文件是否同时存在，不检查是否过期。
func (s *Store) Contains(key string) bool {
	if validateKey(key) != nil {
		return false
	}
	return s.hasFiles(key)
}

// IsExpired 判断 key 是否过期；没有元数据的 key 一律视为过期。
func (s *Store) IsExpired(key string) bool {
	entry, ok := s.lookup(key)
	if !ok {
		return true
	}
	return entry.IsExpired(s.now())
}

// Clear 在后台删除所有已索引的条目。
func (s *Store) Clear() {
	s.clearWhere(func(Entry, time.Time) bool { return true })
}

// ClearExpired 在后台删除所有已过期的条目。
func (s *Store) ClearExpired() {
	s.clearWhere(func(e Entry, now time.Time) bool { return e.IsExpired(now) })
}

// ClearByType 在后台删除类型标签为 typ 的条目。
func (s *Store) ClearByType(typ Type) {
	s.clearWhere(func(e Entry, _ time.Time) bool { return e.Type == typ })
}

// clearWhere 先对索引 key 做快照，再逐个判断删除；删除会修改索引。
func (s *Store) clearWhere(match func(Entry, time.Time) bool) {
	s.spawn(func() {
		for _, key := range s.keys() {
			entry, ok := s.lookup(key)
			if ok && match(entry, s.now()) {
				s.Remove(key)
			}
		}
	})
}
