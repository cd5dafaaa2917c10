package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretKey_Destroy(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	key := NewSecretKey(buf)

	assert.Equal(t, 4, key.Len())
	key.Destroy()

	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
	assert.Nil(t, key.Bytes())
	assert.True(t, key.Destroyed())

	// idempotent
	key.Destroy()
}

func TestSecretKey_NeverSerialized(t *testing.T) {
	key := NewSecretKey([]byte("secret"))
	defer key.Destroy()

	_, err := json.Marshal(key)
	assert.ErrorIs(t, err, ErrSecretNotSerializable)

	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", key))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", key))
}

func TestWallet_CloseScrubs(t *testing.T) {
	buf := []byte{9, 9, 9}
	w := &Wallet{Address: testAddress, PrivateKey: NewSecretKey(buf), Source: WalletSourceImport}

	w.Close()

	assert.Equal(t, []byte{0, 0, 0}, buf)
}

func TestWallet_NeverSerialized(t *testing.T) {
	w := &Wallet{Address: testAddress, PrivateKey: NewSecretKey([]byte("secret")), Source: WalletSourceNFC}
	defer w.Close()

	_, err := json.Marshal(w)
	assert.ErrorIs(t, err, ErrSecretNotSerializable)

	_, err = json.Marshal(*w)
	assert.ErrorIs(t, err, ErrSecretNotSerializable)
}

func TestWallet_LogValueRedacts(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))
	w := &Wallet{Address: testAddress, PrivateKey: NewSecretKey([]byte("hunter2")), Source: WalletSourcePasskey}
	defer w.Close()

	logger.Info("unlocked", "wallet", w, "key", w.PrivateKey)

	require.NotContains(t, out.String(), "hunter2")
	assert.Contains(t, out.String(), testAddress)
	assert.Contains(t, out.String(), "[REDACTED]")
}
