package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry 描述单个 key 的元数据，与磁盘上的 <key>.config 一一对应。
type Entry struct {
	Key      string `json:"key"`
	Type     Type   `json:"type"`
	SavedAt  int64  `json:"saveTime"`
	ValidFor int64  `json:"validTime"`
}

// IsPermanent 表示条目永不过期（ValidFor <= 0）。
func (e Entry) IsPermanent() bool {
	return e.ValidFor <= 0
}

// IsExpired 判断在 now 时刻条目是否已经超出有效期。
func (e Entry) IsExpired(now time.Time) bool {
	if e.IsPermanent() {
		return false
	}
	return now.UnixMilli()-e.SavedAt > e.ValidFor
}

// ExpiresAt 返回过期时间点，永久条目返回零值。
func (e Entry) ExpiresAt() time.Time {
	if e.IsPermanent() {
		return time.Time{}
	}
	return time.UnixMilli(e.SavedAt + e.ValidFor)
}

var errIncompleteConfig = errors.New("cache config missing required fields")

// rawEntry 用指针区分字段缺失与零值，缺任何一个字段都视为损坏。
type rawEntry struct {
	Key      *string `json:"key"`
	Type     *int    `json:"type"`
	SavedAt  *int64  `json:"saveTime"`
	ValidFor *int64  `json:"validTime"`
}

func parseEntry(data []byte) (Entry, error) {
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, err
	}
	if raw.Key == nil || raw.Type == nil || raw.SavedAt == nil || raw.ValidFor == nil {
		return Entry{}, errIncompleteConfig
	}
	return Entry{
		Key:      *raw.Key,
		Type:     Type(*raw.Type),
		SavedAt:  *raw.SavedAt,
		ValidFor: *raw.ValidFor,
	}, nil
}

// validForMillis 将 Duration 转为毫秒；(0,1ms) 的正值按 1ms 记录，避免被误判为永久。
func validForMillis(d time.Duration) int64 {
	if d <= 0 {
		return d.Milliseconds()
	}
	ms := d.Milliseconds()
	if ms == 0 {
		return 1
	}
	return ms
}
