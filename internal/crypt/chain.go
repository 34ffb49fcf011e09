package crypt

import (
	"github.com/devcache/devcache/internal/cache"
	"github.com/devcache/devcache/internal/config"
)

// Chain 按顺序加密、逆序解密；nil 元素会被跳过。
type Chain []cache.Cipher

// NewChain 过滤掉 nil 后构造 Chain；全部为空时返回 nil，表示不加密。
func NewChain(ciphers ...cache.Cipher) cache.Cipher {
	var chain Chain
	for _, c := range ciphers {
		if c != nil {
			chain = append(chain, c)
		}
	}
	switch len(chain) {
	case 0:
		return nil
	case 1:
		return chain[0]
	}
	return chain
}

func (c Chain) Encrypt(plain []byte) ([]byte, error) {
	out := plain
	for _, step := range c {
		var err error
		if out, err = step.Encrypt(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c Chain) Decrypt(data []byte) ([]byte, error) {
	out := data
	for i := len(c) - 1; i >= 0; i-- {
		var err error
		if out, err = c[i].Decrypt(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FromConfig 根据配置组装压缩与加密：先压缩再加密。未启用任何转换时返回 nil。
func FromConfig(cfg config.CipherConfig) (cache.Cipher, error) {
	var compressor, encryptor cache.Cipher

	if cfg.Compression > 0 {
		z, err := NewZstd(cfg.Compression)
		if err != nil {
			return nil, err
		}
		compressor = z
	}

	if cfg.Mode == config.CipherModeXChaCha20 {
		a, err := NewAEAD(DeriveKey(cfg.Passphrase, cfg.Salt))
		if err != nil {
			return nil, err
		}
		encryptor = a
	}

	return NewChain(compressor, encryptor), nil
}
