package keystore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

// Vault owns a Store and the Cipher that protects its records.
type Vault struct {
	store     Store
	validator model.Validator
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	cipher Cipher
}

// Option configures a Vault.
type Option func(*Vault)

// WithValidator replaces the default record validator.
func WithValidator(v model.Validator) Option {
	return func(vault *Vault) { vault.validator = v }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(vault *Vault) { vault.logger = l }
}

// WithClock sets the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(vault *Vault) { vault.now = now }
}

// NewVault creates a Vault.
func NewVault(store Store, cipher Cipher, opts ...Option) *Vault {
	v := &Vault{
		store:     store,
		cipher:    cipher,
		validator: model.DefaultValidator(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.validator.Now == nil {
		v.validator.Now = v.now
	}
	return v
}

func (v *Vault) currentCipher() Cipher {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cipher
}

// Import encrypts key and stores it as a new record for address, kept in its
// canonical form. key is destroyed before Import returns, whatever the outcome.
func (v *Vault) Import(ctx context.Context, address string, key *model.SecretKey, prov model.Provisioning) (model.LocalKeystore, error) {
	if key == nil {
		return model.LocalKeystore{}, errors.New("private key is nil")
	}
	defer key.Destroy()

	format, err := model.ClassifyAddress(address, v.validator.Bech32Prefixes)
	if err != nil {
		return model.LocalKeystore{}, err
	}
	address = model.CanonicalAddress(address, format)
	raw := key.Bytes()
	if len(raw) == 0 {
		return model.LocalKeystore{}, errors.New("private key is empty")
	}

	// Only hex addresses have a chain-independent derivation to check against.
	if format == model.AddressFormatHex {
		derived, err := crypto.EthereumAddress(raw)
		if err != nil {
			return model.LocalKeystore{}, fmt.Errorf("failed to derive address: %w", err)
		}
		if !strings.EqualFold(derived, address) {
			return model.LocalKeystore{}, ErrAddressMismatch
		}
	}

	payload, err := v.currentCipher().Seal(raw)
	if err != nil {
		return model.LocalKeystore{}, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	record := model.LocalKeystore{
		Address:             address,
		EncryptedPrivateKey: payload.Serialize(),
		Provisioning:        prov,
		CreatedAt:           v.now().Unix(),
	}
	if err := v.validator.Validate(record); err != nil {
		return model.LocalKeystore{}, err
	}

	if err := v.store.Create(ctx, record); err != nil {
		return model.LocalKeystore{}, fmt.Errorf("failed to store keystore: %w", err)
	}

	v.logger.InfoContext(ctx, "keystore imported", "address", address, "source", record.Source())
	return record, nil
}

// Unlock decrypts the record for address. The caller owns the returned
// Wallet and must Close it as soon as signing is done.
func (v *Vault) Unlock(ctx context.Context, address string) (*model.Wallet, error) {
	record, err := v.store.Get(ctx, model.NormalizeAddress(address))
	if err != nil {
		return nil, err
	}
	return v.open(v.currentCipher(), record)
}

func (v *Vault) open(c Cipher, record model.LocalKeystore) (*model.Wallet, error) {
	if err := model.ValidateStored(record); err != nil {
		return nil, fmt.Errorf("stored keystore %s is invalid: %w", record.Address, err)
	}

	// Validate already proved the payload parses.
	payload, _ := record.Payload()
	plaintext, err := c.Open(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %s: %w", record.Address, err)
	}

	return &model.Wallet{
		Address:    record.Address,
		PrivateKey: model.NewSecretKey(plaintext),
		Source:     record.Source(),
	}, nil
}

// WithWallet unlocks address, runs fn and scrubs the wallet afterwards.
func (v *Vault) WithWallet(ctx context.Context, address string, fn func(*model.Wallet) error) error {
	wallet, err := v.Unlock(ctx, address)
	if err != nil {
		return err
	}
	defer wallet.Close() // Always clear private key from memory

	return fn(wallet)
}

// Get returns the encrypted record for address.
func (v *Vault) Get(ctx context.Context, address string) (model.LocalKeystore, error) {
	return v.store.Get(ctx, model.NormalizeAddress(address))
}

// List returns all encrypted records.
func (v *Vault) List(ctx context.Context) ([]model.LocalKeystore, error) {
	return v.store.List(ctx)
}

// Delete removes the record for address.
func (v *Vault) Delete(ctx context.Context, address string) error {
	address = model.NormalizeAddress(address)
	if err := v.store.Delete(ctx, address); err != nil {
		return err
	}
	v.logger.InfoContext(ctx, "keystore deleted", "address", address)
	return nil
}

// Rekey re-encrypts every record under next and replaces the stored set in
// one step. On success the vault uses next from then on. It returns the
// number of records re-encrypted.
func (v *Vault) Rekey(ctx context.Context, next Cipher) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	records, err := v.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list keystores: %w", err)
	}

	rekeyed := make([]model.LocalKeystore, 0, len(records))
	for _, record := range records {
		wallet, err := v.open(v.cipher, record)
		if err != nil {
			return 0, err
		}

		payload, err := next.Seal(wallet.PrivateKey.Bytes())
		wallet.Close()
		if err != nil {
			return 0, fmt.Errorf("failed to encrypt keystore %s: %w", record.Address, err)
		}

		record.EncryptedPrivateKey = payload.Serialize()
		rekeyed = append(rekeyed, record)
	}

	if err := v.store.ReplaceAll(ctx, rekeyed); err != nil {
		return 0, fmt.Errorf("failed to replace keystores: %w", err)
	}
	v.cipher = next

	v.logger.InfoContext(ctx, "keystores re-encrypted", "count", len(rekeyed))
	return len(rekeyed), nil
}
