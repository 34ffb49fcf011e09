package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devcache/devcache/internal/cache"
)

var errObjectOverHTTP = errors.New("object payloads need a Go type and cannot be written over HTTP")

// valueFromBody 按类型把请求体转换为 cache.Value。
func valueFromBody(typ cache.Type, body []byte) (cache.Value, error) {
	text := strings.TrimSpace(string(body))
	switch typ {
	case cache.TypeInt:
		v, err := strconv.Atoi(text)
		return cache.Int(v), err
	case cache.TypeInt64:
		v, err := strconv.ParseInt(text, 10, 64)
		return cache.Int64(v), err
	case cache.TypeFloat32:
		v, err := strconv.ParseFloat(text, 32)
		return cache.Float32(float32(v)), err
	case cache.TypeFloat64:
		v, err := strconv.ParseFloat(text, 64)
		return cache.Float64(v), err
	case cache.TypeBool:
		v, err := strconv.ParseBool(text)
		return cache.Bool(v), err
	case cache.TypeString:
		return cache.String(string(body)), nil
	case cache.TypeBytes:
		return cache.Bytes(append([]byte{}, body...)), nil
	case cache.TypeImage:
		img, _, err := image.Decode(bytes.NewReader(body))
		return cache.Image(img), err
	case cache.TypeJSONObject:
		var m map[string]any
		if err := decodeBody(body, &m, true); err != nil {
			return cache.Value{}, err
		}
		if m == nil {
			return cache.Value{}, errors.New("expected a JSON object")
		}
		return cache.JSONObject(m), nil
	case cache.TypeStruct:
		var m map[string]any
		if err := decodeBody(body, &m, false); err != nil {
			return cache.Value{}, err
		}
		if m == nil {
			return cache.Value{}, errors.New("expected a JSON object")
		}
		return cache.Struct(m), nil
	case cache.TypeJSONArray:
		var a []any
		if err := decodeBody(body, &a, true); err != nil {
			return cache.Value{}, err
		}
		if a == nil {
			return cache.Value{}, errors.New("expected a JSON array")
		}
		return cache.JSONArray(a), nil
	case cache.TypeObject:
		return cache.Value{}, errObjectOverHTTP
	default:
		return cache.Value{}, fmt.Errorf("unsupported cache type: %s", typ)
	}
}

// decodeBody 解析 JSON 请求体；keepNumbers 时数字保留为 json.Number。
// struct 写入要编码为 MessagePack 原生数值，不保留。
func decodeBody(body []byte, out any, keepNumbers bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if keepNumbers {
		dec.UseNumber()
	}
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

// contentType 返回读取时的 Content-Type。
func contentType(typ cache.Type, payload []byte) string {
	switch typ {
	case cache.TypeJSONObject, cache.TypeJSONArray:
		return "application/json"
	case cache.TypeImage:
		return http.DetectContentType(payload)
	case cache.TypeBytes:
		return "application/octet-stream"
	case cache.TypeStruct:
		return "application/msgpack"
	case cache.TypeObject:
		return "application/x-gob"
	default:
		return "text/plain; charset=utf-8"
	}
}

// parseTTL 解析 ttl 查询参数：空值表示使用默认 TTL；支持 Go Duration 与整数毫秒。
func parseTTL(raw string) (*time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return &d, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ttl: %s", raw)
	}
	d := time.Duration(ms) * time.Millisecond
	return &d, nil
}
