// Package vault provides symmetric encryption for credentials at rest.
//
// Ciphertexts are stored as "<ivHex>:<cipherHex>" with a fresh random IV
// per encryption. Values without a colon are legacy plaintext tokens and
// pass through Decrypt unchanged.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"
)

const ivLength = 16

// fallbackPassphrase seeds the derived key when no ENCRYPTION_KEY is
// configured. Development only; cmd/server refuses to start with it
// outside a development environment.
const fallbackPassphrase = "elite-finder-secret-fallback"

// CryptoError reports a decryption failure (wrong key, truncated or
// corrupted ciphertext). It is distinct from "no credential stored":
// callers must not conflate the two.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("vault: %s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }

// Vault encrypts and decrypts credential strings under a fixed 32-byte
// AES-256 key.
type Vault struct {
	key      []byte
	fallback bool
	logger   *zap.Logger
}

// New creates a Vault. hexKey must be 64 hex characters (32 bytes) or
// empty; when empty the key is derived from the built-in fallback
// passphrase via scrypt. UsingFallbackKey reports which path was taken.
func New(hexKey string, logger *zap.Logger) (*Vault, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hexKey != "" {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("vault: decode encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("vault: encryption key must be 32 bytes, got %d", len(key))
		}
		return &Vault{key: key, logger: logger}, nil
	}

	// Same parameters as the scrypt defaults used when the original
	// credentials were written.
	key, err := scrypt.Key([]byte(fallbackPassphrase), []byte("salt"), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("vault: derive fallback key: %w", err)
	}
	return &Vault{key: key, fallback: true, logger: logger}, nil
}

// UsingFallbackKey reports whether the vault runs on the derived
// development key rather than a configured secret.
func (v *Vault) UsingFallbackKey() bool { return v.fallback }

// Encrypt encrypts plain and returns "ivHex:cipherHex". Empty input
// returns empty output: absent credentials stay absent.
func (v *Vault) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("vault: generate iv: %w", err)
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("vault: init cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Inputs without a colon are legacy
// unencrypted tokens and are returned unchanged. A malformed or
// undecryptable ciphertext returns a *CryptoError.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	ivHex, cipherHex, found := strings.Cut(ciphertext, ":")
	if !found {
		// Legacy value written before encryption was introduced.
		return ciphertext, nil
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", &CryptoError{Op: "decode iv", Err: err}
	}
	if len(iv) != ivLength {
		return "", &CryptoError{Op: "decode iv", Err: fmt.Errorf("iv length %d, want %d", len(iv), ivLength)}
	}

	data, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", &CryptoError{Op: "decode ciphertext", Err: err}
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", &CryptoError{Op: "decode ciphertext", Err: fmt.Errorf("ciphertext length %d not a block multiple", len(data))}
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", &CryptoError{Op: "init cipher", Err: err}
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		// Wrong key and corrupted bytes both land here.
		return "", &CryptoError{Op: "unpad", Err: err}
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
