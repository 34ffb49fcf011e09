package crypt

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrShortCiphertext 表示密文长度不足以包含 nonce 与认证标签。
var ErrShortCiphertext = errors.New("ciphertext too short")

// AEAD 使用 XChaCha20-Poly1305 加密，输出格式为 nonce || ciphertext。
type AEAD struct {
	aead cipher.AEAD
}

// NewAEAD 使用 32 字节密钥构造加密器。
func NewAEAD(key []byte) (*AEAD, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init xchacha20-poly1305: %w", err)
	}
	return &AEAD{aead: aead}, nil
}

// DeriveKey 通过 Argon2id 从口令派生 32 字节密钥。
func DeriveKey(passphrase, salt string) []byte {
	return argon2.IDKey([]byte(passphrase), []byte(salt), 1, 64*1024, 4, chacha20poly1305.KeySize)
}

func (a *AEAD) Encrypt(plain []byte) ([]byte, error) {
	nonce := make([]byte, a.aead.NonceSize(), a.aead.NonceSize()+len(plain)+a.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return a.aead.Seal(nonce, nonce, plain, nil), nil
}

func (a *AEAD) Decrypt(data []byte) ([]byte, error) {
	size := a.aead.NonceSize()
	if len(data) < size+a.aead.Overhead() {
		return nil, ErrShortCiphertext
	}
	nonce, sealed := data[:size], data[size:]
	plain, err := a.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return plain, nil
}
