package aes

import (
	"bytes"
	"errors"
	"testing"

	"github.com/satqkd/bb84sim/internal/qkd/protocol"
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

func bitsFromString(s string) []quantum.Bit {
	bits := make([]quantum.Bit, len(s))
	for i, c := range s {
		if c == '1' {
			bits[i] = quantum.One
		}
	}
	return bits
}

func TestDeriveKeyLength(t *testing.T) {
	key, err := DeriveKey(bitsFromString("1010101010101010101010101010101010101010101010101010101010101010"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(key) != keySizeBytes {
		t.Errorf("expected a %d-byte key, got %d", keySizeBytes, len(key))
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	bits := bitsFromString("1100101110010110")
	a, err1 := DeriveKey(bits)
	b, err2 := DeriveKey(bits)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !bytes.Equal(a, b) {
		t.Error("DeriveKey must be a function of its input")
	}
}

func TestDeriveKeyInsufficientBits(t *testing.T) {
	_, err := DeriveKey(bitsFromString("1010"))
	var insufficient *InsufficientKey
	if err == nil {
		t.Fatal("expected an InsufficientKey error for fewer than 16 bits")
	}
	if !errors.As(err, &insufficient) {
		t.Errorf("expected *InsufficientKey, got %T", err)
	}
}

func TestDeriveKeyWithSHA3Method(t *testing.T) {
	bits := bitsFromString("1100110011001100110011001100110011001100110011001100110011001100")
	sha2Key, _ := DeriveKeyWithMethod(bits, SHA256)
	sha3Key, _ := DeriveKeyWithMethod(bits, SHA3_256)
	if bytes.Equal(sha2Key, sha3Key) {
		t.Error("different hash methods should produce different derived keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := DeriveKey(bitsFromString("101100101011001010110010101100101011001010110010101100101011001010"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plaintext := []byte("hello, satellite")
	ciphertext, iv, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	decrypted, err := Decrypt(key, iv, ciphertext)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("expected %q, got %q", plaintext, decrypted)
	}
}

// TestScenarioSixRoundTrip is the end-to-end scenario of spec.md §8:
// run a default protocol, derive a key from final_key, encrypt
// "quantum", and decrypt it back byte-identical.
func TestScenarioSixRoundTrip(t *testing.T) {
	trace := protocol.Run(protocol.DefaultConfig(), rng.New(99))
	if len(trace.FinalKey) < minKeyBits {
		t.Skip("this seed did not yield enough final-key bits for AES; statistically rare")
	}

	key, err := DeriveKey(trace.FinalKey)
	if err != nil {
		t.Fatalf("unexpected error deriving key: %v", err)
	}

	ciphertext, iv, err := Encrypt(key, []byte("quantum"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	plaintext, err := Decrypt(key, iv, ciphertext)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if string(plaintext) != "quantum" {
		t.Errorf("expected %q, got %q", "quantum", plaintext)
	}
}
