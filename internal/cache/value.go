package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrNilValue 表示传入的值无法编码（nil map/slice/image/object）。
var ErrNilValue = errors.New("cache value is nil")

// Value 是缓存值的带标签联合体：tag 决定编码方式，payload 只会是该 tag 对应的 Go 类型。
type Value struct {
	typ     Type
	payload any
}

func Int(v int) Value { return Value{typ: TypeInt, payload: v} }
func Int64(v int64) Value { return Value{typ: TypeInt64, payload: v} }
func Float32(v float32) Value { return Value{typ: TypeFloat32, payload: v} }
func Float64(v float64) Value { return Value{typ: TypeFloat64, payload: v} }
func Bool(v bool) Value { return Value{typ: TypeBool, payload: v} }
func String(v string) Value { return Value{typ: TypeString, payload: v} }
func Bytes(v []byte) Value { return Value{typ: TypeBytes, payload: v} }
func Image(v image.Image) Value { return Value{typ: TypeImage, payload: v} }
func JSONObject(v map[string]any) Value { return Value{typ: TypeJSONObject, payload: v} }
func JSONArray(v []any) Value { return Value{typ: TypeJSONArray, payload: v} }

// Object 使用 encoding/gob 编码任意对象图，读取时需提供同类型的指针。
func Object(v any) Value { return Value{typ: TypeObject, payload: v} }

// Struct 使用 MessagePack 编码结构化对象，读取时需提供同类型的指针。
func Struct(v any) Value { return Value{typ: TypeStruct, payload: v} }

// Type 返回值的类型标签。
func (v Value) Type() Type {
	return v.typ
}

// Encode 按类型标签把值编码为写入磁盘前的明文字节。
func (v Value) Encode() ([]byte, error) {
	switch v.typ {
	case TypeInt:
		return []byte(strconv.Itoa(v.payload.(int))), nil
	case TypeInt64:
		return []byte(strconv.FormatInt(v.payload.(int64), 10)), nil
	case TypeFloat32:
		return []byte(strconv.FormatFloat(float64(v.payload.(float32)), 'g', -1, 32)), nil
	case TypeFloat64:
		return []byte(strconv.FormatFloat(v.payload.(float64), 'g', -1, 64)), nil
	case TypeBool:
		return []byte(strconv.FormatBool(v.payload.(bool))), nil
	case TypeString:
		return []byte(v.payload.(string)), nil
	case TypeBytes:
		b := v.payload.([]byte)
		if b == nil {
			return nil, ErrNilValue
		}
		return b, nil
	case TypeImage:
		img, _ := v.payload.(image.Image)
		return encodeImage(img)
	case TypeObject:
		return encodeObject(v.payload)
	case TypeStruct:
		if v.payload == nil {
			return nil, ErrNilValue
		}
		return msgpack.Marshal(v.payload)
	case TypeJSONObject:
		m := v.payload.(map[string]any)
		if m == nil {
			return nil, ErrNilValue
		}
		return json.Marshal(m)
	case TypeJSONArray:
		a := v.payload.([]any)
		if a == nil {
			return nil, ErrNilValue
		}
		return json.Marshal(a)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", v.typ)
	}
}

func encodeImage(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrNilValue
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeObject(obj any) ([]byte, error) {
	if obj == nil {
		return nil, ErrNilValue
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
