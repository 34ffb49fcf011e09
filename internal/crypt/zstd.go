package crypt

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd 以 zstd 压缩负载，实现与加密器相同的接口，便于放入 Chain。
type Zstd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd 按 zstd 压缩级别（1 最快，越大压缩率越高）构造压缩器。
func NewZstd(level int) (*Zstd, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Zstd{encoder: encoder, decoder: decoder}, nil
}

func (z *Zstd) Encrypt(plain []byte) ([]byte, error) {
	return z.encoder.EncodeAll(plain, nil), nil
}

func (z *Zstd) Decrypt(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
