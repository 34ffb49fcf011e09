// Package crypt provides payload transforms that satisfy cache.Cipher:
// XChaCha20-Poly1305 authenticated encryption with Argon2id key derivation,
// zstd compression, and a Chain that composes them. The cache store treats
// every transform as opaque bytes-in/bytes-out.
package crypt
