// Command wallet-keystore serves and manages encrypted wallet keystores.
//
// Usage:
//
//	wallet-keystore serve
//	wallet-keystore import [-address A] -source passkey|nfc|import [-credential-id X] [-nfc-uid Y]
//	wallet-keystore list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/wallet-keystore/internal/api"
	"github.com/AlexZinkM/wallet-keystore/internal/app"
	"github.com/AlexZinkM/wallet-keystore/internal/config"
	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wallet-keystore serve|import|list [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()
	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		app.Fatal(logger, "Failed to open store", err)
	}
	defer closeStore()

	switch os.Args[1] {
	case "serve":
		err = serve(ctx, cfg, store, logger)
	case "import":
		err = importKey(ctx, cfg, store, logger, os.Args[2:])
	case "list":
		err = list(ctx, store)
	default:
		usage()
	}
	if err != nil {
		closeStore()
		app.Fatal(logger, "Command failed", err)
	}
}

func unlockVault(ctx context.Context, cfg *config.Config, store keystore.Store, logger *slog.Logger) (*keystore.Vault, error) {
	password, err := config.PromptForPassword("Enter wallet password: ")
	if err != nil {
		return nil, err
	}
	c, err := app.NewCipher(ctx, store, password, cfg.KDFParams())
	if err != nil {
		return nil, err
	}
	return keystore.NewVault(store, c,
		keystore.WithValidator(app.Validator(cfg)),
		keystore.WithLogger(logger),
	), nil
}

func serve(ctx context.Context, cfg *config.Config, store keystore.Store, logger *slog.Logger) error {
	vault, err := unlockVault(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	if err := app.VerifyPassword(ctx, vault); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(vault, app.Validator(cfg), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Received signal, shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func importKey(ctx context.Context, cfg *config.Config, store keystore.Store, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	address := fs.String("address", "", "Wallet address; derived from the key when empty")
	source := fs.String("source", string(model.WalletSourceImport), "Wallet source: passkey, nfc or import")
	credentialID := fs.String("credential-id", "", "Passkey credential ID (source=passkey)")
	nfcUID := fs.String("nfc-uid", "", "NFC tag UID (source=nfc)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prov, err := model.NewProvisioning(model.WalletSource(*source), *credentialID, *nfcUID)
	if err != nil {
		return err
	}

	raw, err := config.PromptForPrivateKey()
	if err != nil {
		return err
	}
	key := model.NewSecretKey(raw)
	defer key.Destroy()

	if *address == "" {
		derived, err := crypto.EthereumAddress(key.Bytes())
		if err != nil {
			return fmt.Errorf("failed to derive address: %w", err)
		}
		*address = derived
	}

	vault, err := unlockVault(ctx, cfg, store, logger)
	if err != nil {
		return err
	}
	if err := app.VerifyPassword(ctx, vault); err != nil {
		return err
	}

	record, err := vault.Import(ctx, *address, key, prov)
	if err != nil {
		return err
	}
	fmt.Println(record.Address)
	return nil
}

func list(ctx context.Context, store keystore.Store) error {
	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, k := range records {
		fmt.Printf("%s\t%s\t%s\n", k.Address, k.Source(), k.CreatedTime().UTC().Format(time.RFC3339))
	}
	return nil
}
