package cache

import (
	"image"
	"os"
)

// Load 返回 key 的元数据与解密后的明文。条目缺失、已过期或读取/解密失败时返回 false；
// 过期条目会在此时被删除，解密失败不会影响磁盘上的数据。
func (s *Store) Load(key string) (Entry, []byte, bool) {
	entry, ok := s.lookup(key)
	if !ok {
		return Entry{}, nil, false
	}
	if entry.IsExpired(s.now()) {
		s.Remove(key)
		return Entry{}, nil, false
	}

	payload, err := os.ReadFile(s.dataPath(key))
	if err != nil {
		s.fail("cache_read_data", key, err)
		return Entry{}, nil, false
	}
	if s.cipher != nil {
		plain, err := s.cipher.Decrypt(payload)
		if err != nil {
			s.fail("cache_decrypt", key, err)
			return Entry{}, nil, false
		}
		payload = plain
	}
	return entry, payload, true
}

// getAs 是所有类型化读取的公共路径：任何失败都回退到 def。
func getAs[T any](s *Store, key string, def T, decode func([]byte) (T, error)) T {
	_, payload, ok := s.Load(key)
	if !ok {
		return def
	}
	v, err := decode(payload)
	if err != nil {
		s.fail("cache_decode", key, err)
		return def
	}
	return v
}

// getInto 用于需要调用方提供目标指针的类型，失败时返回 false。
func (s *Store) getInto(key string, out any, decode func([]byte, any) error) bool {
	_, payload, ok := s.Load(key)
	if !ok {
		return false
	}
	if err := decode(payload, out); err != nil {
		s.fail("cache_decode", key, err)
		return false
	}
	return true
}

// GetInt 读取 int，缺失、过期或解析失败时返回 def。
func (s *Store) GetInt(key string, def int) int {
	return getAs(s, key, def, decodeInt)
}

// GetInt64 读取 int64，失败时返回 def。
func (s *Store) GetInt64(key string, def int64) int64 {
	return getAs(s, key, def, decodeInt64)
}

// GetFloat32 读取 float32，失败时返回 def。
func (s *Store) GetFloat32(key string, def float32) float32 {
	return getAs(s, key, def, decodeFloat32)
}

// GetFloat64 读取 float64，失败时返回 def。
func (s *Store) GetFloat64(key string, def float64) float64 {
	return getAs(s, key, def, decodeFloat64)
}

// GetBool 读取 bool，失败时返回 def。
func (s *Store) GetBool(key string, def bool) bool {
	return getAs(s, key, def, decodeBool)
}

// GetString 读取字符串，失败时返回 def。
func (s *Store) GetString(key string, def string) string {
	return getAs(s, key, def, decodeString)
}

// GetBytes 读取原始字节，失败时返回 def。
func (s *Store) GetBytes(key string, def []byte) []byte {
	return getAs(s, key, def, decodeBytes)
}

// GetImage 解码 PNG/JPEG/GIF 图片，失败时返回 def。
func (s *Store) GetImage(key string, def image.Image) image.Image {
	return getAs(s, key, def, decodeImage)
}

// GetJSONObject 读取 JSON 对象，数字以 json.Number 返回；失败时返回 def。
func (s *Store) GetJSONObject(key string, def map[string]any) map[string]any {
	return getAs(s, key, def, decodeJSONObject)
}

// GetJSONArray 读取 JSON 数组，数字以 json.Number 返回；失败时返回 def。
func (s *Store) GetJSONArray(key string, def []any) []any {
	return getAs(s, key, def, decodeJSONArray)
}

// GetObject 将 gob 编码的对象解码到 out（指针）；失败时返回 false。
func (s *Store) GetObject(key string, out any) bool {
	return s.getInto(key, out, decodeObject)
}

// GetStruct 将 MessagePack 编码的对象解码到 out（指针）；失败时返回 false。
func (s *Store) GetStruct(key string, out any) bool {
	return s.getInto(key, out, decodeStruct)
}
