/*
Package portability implements the password-protected export container.

PURPOSE:
  Serializes a selected set of limits to an encrypted file and reverses
  the process on import. The wire format matches what the mobile app has
  always produced, so archives travel both ways:

    - Payload: JSON document of the exported limits (amounts as decimal
      strings)
    - Cipher: AES-128 in CBC mode with a zero IV and PKCS7 padding
    - Key: the UTF-8 bytes of the user's password, truncated or
      zero-padded to 16 bytes
    - Extension: .potclockdata

  The zero IV and direct password-to-key mapping are weaknesses, but they
  are the established format; changing either breaks every archive users
  already hold.

DECRYPTION FAILURES:
  A wrong password produces garbage plaintext. That surfaces either as
  invalid padding or as JSON that fails to decode; both map to
  ErrBadPassword since the two are indistinguishable.
*/
package portability

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greenclean/serene/tracking"
)

// FileExtension is the fixed suffix for export archives.
const FileExtension = ".potclockdata"

var (
	// ErrEmptyPassword is returned when exporting or importing without a
	// password.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrBadPassword is returned when an archive cannot be decrypted,
	// from either a wrong password or a corrupted file.
	ErrBadPassword = errors.New("wrong password or corrupted archive")
)

// archive is the plaintext payload of an export file.
type archive struct {
	Version int               `json:"version"`
	Limits  []*tracking.Limit `json:"limits"`
}

// Export encrypts the given limits under the password.
func Export(limits []*tracking.Limit, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	payload, err := json.Marshal(archive{Version: 1, Limits: limits})
	if err != nil {
		return nil, fmt.Errorf("encode limits: %w", err)
	}
	return encrypt(payload, password)
}

// Import decrypts an archive and decodes its limits. Category and timing
// tags decode strictly; an archive carrying unknown tags fails rather
// than importing corrupted data.
func Import(data []byte, password string) ([]*tracking.Limit, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	payload, err := decrypt(data, password)
	if err != nil {
		return nil, err
	}

	var a archive
	if err := json.Unmarshal(payload, &a); err != nil {
		var tagErr *tracking.UnknownTagError
		if errors.As(err, &tagErr) {
			return nil, tagErr
		}
		return nil, ErrBadPassword
	}
	return a.Limits, nil
}

// =============================================================================
// CIPHER
// =============================================================================

// deriveKey maps the password onto an AES-128 key: UTF-8 bytes, truncated
// or zero-padded to the key size.
func deriveKey(password string) []byte {
	key := make([]byte, 16)
	copy(key, password)
	return key
}

func encrypt(plaintext []byte, password string) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return nil, err
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	iv := make([]byte, aes.BlockSize) // zero IV, fixed by the wire format
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func decrypt(ciphertext []byte, password string) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrBadPassword
	}

	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	iv := make([]byte, aes.BlockSize)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return unpadPKCS7(out, aes.BlockSize)
}

func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadPassword
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrBadPassword
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPassword
		}
	}
	return data[:len(data)-n], nil
}
