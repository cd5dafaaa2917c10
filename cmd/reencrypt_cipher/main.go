// One-off: re-encrypt every stored keystore under a new password.
// The store keeps its salt; only the encrypted payloads change.
// Usage: go run ./cmd/reencrypt_cipher
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/AlexZinkM/wallet-keystore/internal/app"
	"github.com/AlexZinkM/wallet-keystore/internal/config"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()
	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		app.Fatal(logger, "Failed to open store", err)
	}

	count, err := rekey(ctx, cfg, store, logger)
	closeStore()
	if err != nil {
		app.Fatal(logger, "Re-encryption failed", err)
	}
	fmt.Printf("re-encrypted %d keystore(s)\n", count)
}

func rekey(ctx context.Context, cfg *config.Config, store keystore.Store, logger *slog.Logger) (int, error) {
	current, err := config.PromptForPassword("Enter current password: ")
	if err != nil {
		return 0, err
	}
	oldCipher, err := app.NewCipher(ctx, store, current, cfg.KDFParams())
	if err != nil {
		return 0, err
	}

	vault := keystore.NewVault(store, oldCipher,
		keystore.WithValidator(app.Validator(cfg)),
		keystore.WithLogger(logger),
	)
	if err := app.VerifyPassword(ctx, vault); err != nil {
		return 0, err
	}

	next, err := config.PromptForPassword("Enter new password: ")
	if err != nil {
		return 0, err
	}
	confirm, err := config.PromptForPassword("Repeat new password: ")
	if err != nil {
		clear(next)
		return 0, err
	}
	match := bytes.Equal(next, confirm)
	clear(confirm)
	if !match {
		clear(next)
		return 0, errors.New("passwords do not match")
	}

	newCipher, err := app.NewCipher(ctx, store, next, cfg.KDFParams())
	if err != nil {
		return 0, err
	}
	return vault.Rekey(ctx, newCipher)
}
