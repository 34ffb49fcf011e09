package cache

import (
	"encoding/json"
	"image"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Put 编码并写入 value；validFor <= 0 表示永久有效。
// 仅数据文件写入结果决定返回值，元数据写入失败只记录日志。
func (s *Store) Put(key string, value Value, validFor time.Duration) bool {
	if err := validateKey(key); err != nil {
		return false
	}
	plain, err := value.Encode()
	if err != nil {
		s.fail("cache_encode", key, err)
		return false
	}
	return s.write(key, value.Type(), plain, validFor)
}

func (s *Store) write(key string, typ Type, payload []byte, validFor time.Duration) bool {
	if s.cipher != nil {
		encrypted, err := s.cipher.Encrypt(payload)
		if err != nil {
			s.fail("cache_encrypt", key, err)
			return false
		}
		payload = encrypted
	}

	if err := writeFileAtomic(s.dataPath(key), payload); err != nil {
		s.fail("cache_write_data", key, err)
		return false
	}

	entry := Entry{
		Key:      strings.Clone(key),
		Type:     typ,
		SavedAt:  s.now().UnixMilli(),
		ValidFor: validForMillis(validFor),
	}
	s.storeEntry(entry, int64(len(payload)))

	s.writeConfig(entry)
	return true
}

func (s *Store) writeConfig(entry Entry) {
	raw, err := json.Marshal(entry)
	if err == nil {
		err = writeFileAtomic(s.configPath(entry.Key), raw)
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": "cache_write_config",
			"key":    entry.Key,
		}).WithError(err).Warn("write cache config failed")
	}
}

// PutInt 以十进制文本保存 int。
func (s *Store) PutInt(key string, v int, validFor time.Duration) bool {
	return s.Put(key, Int(v), validFor)
}

// PutInt64 以十进制文本保存 int64。
func (s *Store) PutInt64(key string, v int64, validFor time.Duration) bool {
	return s.Put(key, Int64(v), validFor)
}

// PutFloat32 以最短可还原的文本保存 float32。
func (s *Store) PutFloat32(key string, v float32, validFor time.Duration) bool {
	return s.Put(key, Float32(v), validFor)
}

// PutFloat64 以最短可还原的文本保存 float64。
func (s *Store) PutFloat64(key string, v float64, validFor time.Duration) bool {
	return s.Put(key, Float64(v), validFor)
}

// PutBool 保存 true/false 文本。
func (s *Store) PutBool(key string, v bool, validFor time.Duration) bool {
	return s.Put(key, Bool(v), validFor)
}

// PutString 原样保存字符串字节。
func (s *Store) PutString(key string, v string, validFor time.Duration) bool {
	return s.Put(key, String(v), validFor)
}

// PutBytes 原样保存字节切片，nil 视为无效值。
func (s *Store) PutBytes(key string, v []byte, validFor time.Duration) bool {
	return s.Put(key, Bytes(v), validFor)
}

// PutImage 以 PNG 编码保存图片。
func (s *Store) PutImage(key string, v image.Image, validFor time.Duration) bool {
	return s.Put(key, Image(v), validFor)
}

// PutObject 以 gob 编码保存对象图。
func (s *Store) PutObject(key string, v any, validFor time.Duration) bool {
	return s.Put(key, Object(v), validFor)
}

// PutStruct 以 MessagePack 编码保存结构化对象。
func (s *Store) PutStruct(key string, v any, validFor time.Duration) bool {
	return s.Put(key, Struct(v), validFor)
}

// PutJSONObject 以 JSON 文本保存对象。
func (s *Store) PutJSONObject(key string, v map[string]any, validFor time.Duration) bool {
	return s.Put(key, JSONObject(v), validFor)
}

// PutJSONArray 以 JSON 文本保存数组。
func (s *Store) PutJSONArray(key string, v []any, validFor time.Duration) bool {
	return s.Put(key, JSONArray(v), validFor)
}
