// Package crypto implements the per-file envelope encryption scheme used for
// every object stored in the vault. Each Encrypt call generates a fresh random
// 256-bit key and 128-bit IV and runs AES-256 in CBC mode with PKCS#7 padding,
// returning the ciphertext together with the one-time key/IV pair needed to
// invert it. A fresh key per file (and per re-encryption) bounds the blast
// radius of a single key compromise to one object version; a random IV per
// encryption avoids ciphertext-pattern leakage across files.
//
// CBC provides confidentiality but no integrity: a flipped ciphertext bit is
// not detected cryptographically, only by the padding check. Corruption
// handling above this package is therefore structural (field presence plus
// padding validation), matching the stored-record invariants enforced by the
// vault service.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

const (
	// KeySize is the envelope key length in bytes (AES-256).
	KeySize = 32
	// IVSize is the initialization vector length in bytes (one AES block).
	IVSize = aes.BlockSize
)

var (
	// ErrKeyLengthInvalid is returned when a key is not exactly 32 bytes (required for AES-256).
	ErrKeyLengthInvalid = errors.New("crypto: key must be exactly 32 bytes for AES-256")
	// ErrIVLengthInvalid is returned when an IV is not exactly one AES block (16 bytes).
	ErrIVLengthInvalid = errors.New("crypto: iv must be exactly 16 bytes")
	// ErrDecryptionFailed is returned when the ciphertext cannot be inverted under the
	// supplied key/IV: its length is not a block multiple, it is empty, or the PKCS#7
	// padding fails validation after decryption (wrong key, wrong IV, or corrupted data).
	// The cause is deliberately not distinguished in the error value.
	ErrDecryptionFailed = errors.New("crypto: decryption operation failed")
)

// Encrypt encrypts plaintext under a freshly generated key and IV and returns
// the ciphertext plus the key/IV pair. It accepts any input length including
// zero-length plaintext (which encrypts to a single padded block). The only
// failure mode is the system randomness source being unavailable.
func Encrypt(plaintext []byte) (ciphertext, key, iv []byte, err error) {
	key = make([]byte, KeySize)
	if _, err = io.ReadFull(rand.Reader, key); err != nil {
		return nil, nil, nil, err
	}
	iv = make([]byte, IVSize)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, nil, err
	}

	padded := pad(plaintext)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, key, iv, nil
}

// Decrypt inverts a ciphertext produced by Encrypt. It returns
// ErrKeyLengthInvalid or ErrIVLengthInvalid on malformed parameters and
// ErrDecryptionFailed when the ciphertext is empty, not a block multiple, or
// fails padding validation after the block cipher inversion.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeyLengthInvalid
	}
	if len(iv) != IVSize {
		return nil, ErrIVLengthInvalid
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return unpad(padded)
}

// pad appends PKCS#7 padding. The input is always extended: a block-aligned
// input gains a full block of padding so unpad can rely on at least one
// padding byte being present.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// unpad validates and strips PKCS#7 padding. All validation failures collapse
// into ErrDecryptionFailed so callers cannot distinguish a wrong key from
// corrupted padding.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrDecryptionFailed
	}
	// Check every padding byte rather than short-circuiting on the first
	// mismatch; the comparison cost is fixed for a given padding length.
	valid := true
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			valid = false
		}
	}
	if !valid {
		return nil, ErrDecryptionFailed
	}
	return data[:len(data)-n], nil
}
