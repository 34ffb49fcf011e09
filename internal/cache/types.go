package cache

import (
	"fmt"
	"strings"
)

// Type 标识缓存值的原始语义类型，数值会写入 .config 的 type 字段。
type Type int

const (
	TypeInt Type = iota + 1
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeString
	TypeBytes
	TypeImage
	TypeObject
	TypeStruct
	TypeJSONObject
	TypeJSONArray
)

var typeNames = map[Type]string{
	TypeInt:        "int",
	TypeInt64:      "long",
	TypeFloat32:    "float",
	TypeFloat64:    "double",
	TypeBool:       "bool",
	TypeString:     "string",
	TypeBytes:      "bytes",
	TypeImage:      "image",
	TypeObject:     "object",
	TypeStruct:     "struct",
	TypeJSONObject: "json_object",
	TypeJSONArray:  "json_array",
}

// String 返回类型的可读名称，未知类型输出 type(N)。
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Valid 判断类型码是否属于受支持的集合。
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType 将名称（大小写不敏感）解析为 Type，供 HTTP/配置层使用。
func ParseType(name string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == normalized {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unsupported cache type: %q", name)
}
