package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
	"github.com/AlexZinkM/wallet-keystore/internal/storage/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyHex     = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testKeyAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

func setupRouter(t *testing.T) (http.Handler, *keystore.Vault) {
	t.Helper()

	store, err := file.New(filepath.Join(t.TempDir(), "wallets.json"))
	require.NoError(t, err)

	c, err := crypto.NewAESGCM(make([]byte, 32))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	vault := keystore.NewVault(store, c, keystore.WithLogger(logger))
	return SetupRouter(vault, model.DefaultValidator(), logger), vault
}

func TestRouter_ImportedKeystoreIsServedEncrypted(t *testing.T) {
	router, vault := setupRouter(t)

	key, err := hex.DecodeString(testKeyHex)
	require.NoError(t, err)
	_, err = vault.Import(context.Background(), testKeyAddress, model.NewSecretKey(key), model.NFCProvisioning{UID: "04a224b2"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/keystores/"+testKeyAddress, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), testKeyHex)

	var got model.LocalKeystore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.WalletSourceNFC, got.Source())
	assert.NoError(t, model.Validate(got))
}

func TestRouter_Routes(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/keystores", http.StatusOK},
		{http.MethodGet, "/keystores/" + testKeyAddress, http.StatusNotFound},
		{http.MethodGet, "/keystores/" + testKeyAddress + "/qr", http.StatusNotFound},
		{http.MethodGet, "/payloads/parse", http.StatusMethodNotAllowed},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := recoveryMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
