// Package app wires configuration, logging and the selected store into a
// keystore.Vault for the command-line entry points.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/AlexZinkM/wallet-keystore/internal/config"
	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
	"github.com/AlexZinkM/wallet-keystore/internal/storage/file"
	"github.com/AlexZinkM/wallet-keystore/internal/storage/sqlite"
)

// NewLogger returns a tint-backed logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.SlogLevel(),
		TimeFormat: time.RFC3339,
	}))
}

// Validator builds the record validator from configuration.
func Validator(cfg *config.Config) model.Validator {
	return model.Validator{
		Now:            time.Now,
		MaxClockSkew:   cfg.MaxClockSkew,
		Bech32Prefixes: cfg.Bech32Prefixes,
	}
}

// OpenStore opens the store selected by WALLET_STORE_DRIVER. The returned
// close function must be called on shutdown.
func OpenStore(ctx context.Context, cfg *config.Config) (keystore.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := sqlite.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return sqlite.NewKeystoreRepo(db), db.Close, nil
	default:
		store, err := file.New(cfg.KeystoreFilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

// NewCipher derives the record cipher from password and the store's salt.
// password is cleared before NewCipher returns.
func NewCipher(ctx context.Context, store keystore.Store, password []byte, params crypto.KDFParams) (*crypto.AESGCM, error) {
	defer clear(password)

	salt, err := store.KDFSalt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load kdf salt: %w", err)
	}
	return crypto.NewPasswordCipher(password, salt, params)
}

// VerifyPassword unlocks the first stored record, if any, so a wrong
// password is reported at startup rather than on first use.
func VerifyPassword(ctx context.Context, vault *keystore.Vault) error {
	records, err := vault.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return vault.WithWallet(ctx, records[0].Address, func(*model.Wallet) error { return nil })
}

// Fatal logs err and exits with status 1.
func Fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
