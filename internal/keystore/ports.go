// Package keystore imports, unlocks and re-keys wallet keystore records. The
// record model lives in internal/model; encryption and persistence are
// supplied through the Cipher and Store ports.
package keystore

import (
	"context"
	"errors"

	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

var (
	// ErrNotFound is returned when no record exists for an address.
	ErrNotFound = errors.New("keystore not found")
	// ErrAlreadyExists is returned when creating a record for an address that already has one.
	ErrAlreadyExists = errors.New("keystore already exists")
	// ErrAddressMismatch is returned when a private key does not belong to the given address.
	ErrAddressMismatch = errors.New("private key does not match address")
)

// Cipher turns raw key material into an encrypted payload and back.
type Cipher interface {
	Seal(plaintext []byte) (model.EncryptedData, error)
	// Open returns plaintext the caller must clear after use.
	Open(payload model.EncryptedData) ([]byte, error)
}

// Store persists keystore records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Create stores a new record. Returns ErrAlreadyExists if the address is taken.
	Create(ctx context.Context, k model.LocalKeystore) error

	// Get returns the record for address, or ErrNotFound.
	Get(ctx context.Context, address string) (model.LocalKeystore, error)

	// List returns all records ordered by address.
	List(ctx context.Context) ([]model.LocalKeystore, error)

	// Delete removes the record for address. Returns ErrNotFound if absent.
	Delete(ctx context.Context, address string) error

	// ReplaceAll atomically replaces the full record set.
	ReplaceAll(ctx context.Context, ks []model.LocalKeystore) error

	// KDFSalt returns the store's key-derivation salt, creating it on first use.
	KDFSalt(ctx context.Context) ([]byte, error)
}
