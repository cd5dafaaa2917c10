package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

const (
	nonceLen = 12
	tagLen   = 16
)

// ErrDecrypt hides the reason a payload could not be opened: wrong key and
// tampered data look the same to the caller.
var ErrDecrypt = errors.New("invalid password or corrupted payload")

// AESGCM seals private keys with AES-256-GCM and splits the output into the
// iv:tag:encrypted payload form.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM creates a cipher from a 32-byte key. The caller may clear key
// once this returns.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != scryptKeyLen {
		return nil, fmt.Errorf("key must be %d bytes, got %d", scryptKeyLen, len(key))
	}

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCMWithNonceSize(block, nonceLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCM{aead: aesGCM}, nil
}

// NewPasswordCipher derives a key from password and salt and returns a cipher
// using it. The derived key is wiped before returning.
// password must be []byte for security (caller should zero it after use)
func NewPasswordCipher(password, salt []byte, params KDFParams) (*AESGCM, error) {
	key, err := DeriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}
	defer clear(key) // wipe derived key from memory

	return NewAESGCM(key)
}

// Seal encrypts plaintext under a fresh random IV.
func (c *AESGCM) Seal(plaintext []byte) (model.EncryptedData, error) {
	if len(plaintext) == 0 {
		return model.EncryptedData{}, errors.New("nothing to encrypt")
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return model.EncryptedData{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// GCM appends the tag to the ciphertext.
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - tagLen

	return model.NewEncryptedData(nonce, sealed[split:], sealed[:split]), nil
}

// Open decrypts payload. The returned plaintext is owned by the caller, who
// must clear it after use.
func (c *AESGCM) Open(payload model.EncryptedData) ([]byte, error) {
	nonce, tag, ciphertext, err := payload.Decode()
	if err != nil {
		return nil, err
	}
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", nonceLen, len(nonce))
	}
	if len(tag) != tagLen {
		return nil, fmt.Errorf("tag must be %d bytes, got %d", tagLen, len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
