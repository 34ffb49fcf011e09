package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

func decodeInt(b []byte) (int, error) {
	return strconv.Atoi(string(b))
}

func decodeInt64(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}

func decodeFloat32(b []byte) (float32, error) {
	f, err := strconv.ParseFloat(string(b), 32)
	return float32(f), err
}

func decodeFloat64(b []byte) (float64, error) {
	return strconv.ParseFloat(string(b), 64)
}

func decodeBool(b []byte) (bool, error) {
	return strconv.ParseBool(string(b))
}

func decodeString(b []byte) (string, error) {
	return string(b), nil
}

func decodeBytes(b []byte) ([]byte, error) {
	return b, nil
}

func decodeImage(b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}

// decodeJSON 保留数字的原始文本（json.Number），再次编码时与写入的字节一致。
func decodeJSON(b []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after json payload")
	}
	return nil
}

func decodeJSONObject(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := decodeJSON(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("json payload is not an object")
	}
	return m, nil
}

func decodeJSONArray(b []byte) ([]any, error) {
	var a []any
	if err := decodeJSON(b, &a); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.New("json payload is not an array")
	}
	return a, nil
}

func decodeObject(b []byte, out any) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(out)
}

func decodeStruct(b []byte, out any) error {
	return msgpack.Unmarshal(b, out)
}
