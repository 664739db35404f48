// Package aes is the external collaborator that turns a BB84 final key
// into an AES-256-CBC cipher (spec.md §6: "out of scope" for the core,
// consumed as an interface by it). It is never called from the
// simulation pipeline itself.
package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
)

const keySizeBytes = 32

// HashMethod selects the digest used to strengthen the packed quantum
// key into a fixed-size AES-256 key. SHA256 is the spec-mandated
// default; the SHA3 variants are an additional option surfaced because
// the key material is otherwise indistinguishable from random bits
// regardless of which secure hash compresses it.
type HashMethod string

const (
	SHA256   HashMethod = "SHA256"
	SHA3_256 HashMethod = "SHA3-256"
	SHA3_512 HashMethod = "SHA3-512"
)

func hasherFor(method HashMethod) (hash.Hash, error) {
	switch method {
	case SHA256, "":
		return sha256.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_512:
		return sha3.New512(), nil
	default:
		return nil, fmt.Errorf("aes: unknown hash method %q", method)
	}
}

// InsufficientKey is returned when the caller offers fewer than
// minKeyBits (16) bits of key material (spec.md §7: a consumer-side
// condition, not a core error).
type InsufficientKey struct {
	Have int
	Need int
}

func (e *InsufficientKey) Error() string {
	return fmt.Sprintf("aes: need at least %d bits of key material, have %d", e.Need, e.Have)
}

const minKeyBits = 16

// DeriveKey packs bits MSB-first into bytes, right-pads with zeros to
// at least 32 bytes, and hashes the first 32 bytes down to a 32-byte
// AES-256 key (spec.md §6).
func DeriveKey(bits []quantum.Bit) ([]byte, error) {
	return DeriveKeyWithMethod(bits, SHA256)
}

// DeriveKeyWithMethod is DeriveKey with an explicit digest choice.
func DeriveKeyWithMethod(bits []quantum.Bit, method HashMethod) ([]byte, error) {
	if len(bits) < minKeyBits {
		return nil, &InsufficientKey{Have: len(bits), Need: minKeyBits}
	}

	packed := quantum.BitsToBytes(bits)
	if len(packed) < keySizeBytes {
		padded := make([]byte, keySizeBytes)
		copy(padded, packed)
		packed = padded
	}

	h, err := hasherFor(method)
	if err != nil {
		return nil, err
	}
	h.Write(packed[:keySizeBytes])
	return h.Sum(nil)[:keySizeBytes], nil
}

// Encrypt AES-256-CBC encrypts plaintext under key, generating a fresh
// random IV and returning it alongside the ciphertext.
func Encrypt(key, plaintext []byte) (ciphertext, iv []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// Decrypt AES-256-CBC decrypts ciphertext under key and iv, removing
// PKCS#7 padding.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("aes: ciphertext is not a multiple of the block size")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("aes: cannot unpad empty data")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errors.New("aes: invalid padding")
	}
	return data[:len(data)-padLen], nil
}
