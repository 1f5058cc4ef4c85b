// Package cryptox holds the symmetric primitives used by the vault:
// AES-256-GCM sealing, HKDF key derivation, per-file envelope encryption
// and argon2id password hashing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length used for master and file keys.
const KeySize = 32

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey expands an operator-supplied secret of any length into a KeySize
// AES key. info separates keys derived from the same secret for different uses.
func DeriveKey(secret []byte, info string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty secret")
	}
	key := make([]byte, KeySize)
	r := hkdf.New(sha256.New, secret, nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated and prepended to the returned ciphertext. additionalData is
// authenticated but not stored.
func Seal(key, plaintext, additionalData []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses Seal. Any tampering with the payload or additionalData, or a
// different key, makes it fail.
func Open(key, payload, additionalData []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := aesgcm.NonceSize()
	if len(payload) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	return aesgcm.Open(nil, payload[:nonceSize], payload[nonceSize:], additionalData)
}

// EncryptedFile is a file payload sealed under its own random key. The file key
// is itself sealed (wrapped) under the master key.
type EncryptedFile struct {
	Ciphertext []byte
	WrappedKey []byte
}

// EncryptFile seals content under a fresh file key and wraps that key under
// masterKey. aad binds both ciphertexts to a caller-chosen context (the file id),
// so blobs cannot be swapped between records.
func EncryptFile(masterKey, content, aad []byte) (*EncryptedFile, error) {
	fileKey := common.GenerateRandByteArray(KeySize)
	defer common.WipeByteArray(fileKey)

	ciphertext, err := Seal(fileKey, content, aad)
	if err != nil {
		return nil, fmt.Errorf("seal content: %w", err)
	}

	wrapped, err := Seal(masterKey, fileKey, aad)
	if err != nil {
		return nil, fmt.Errorf("wrap file key: %w", err)
	}

	return &EncryptedFile{Ciphertext: ciphertext, WrappedKey: wrapped}, nil
}

// DecryptFile unwraps the file key with masterKey and opens the content.
func DecryptFile(masterKey []byte, f *EncryptedFile, aad []byte) ([]byte, error) {
	fileKey, err := Open(masterKey, f.WrappedKey, aad)
	if err != nil {
		return nil, fmt.Errorf("unwrap file key: %w", err)
	}
	defer common.WipeByteArray(fileKey)

	content, err := Open(fileKey, f.Ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	return content, nil
}
