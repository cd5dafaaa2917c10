package model

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
)

// ErrSecretNotSerializable is returned when secret material is marshaled.
var ErrSecretNotSerializable = errors.New("secret material must not be serialized")

// SecretKey owns a buffer of raw secret bytes. Destroy overwrites it; if the
// key becomes unreachable before Destroy is called the buffer is zeroed by a
// runtime cleanup.
type SecretKey struct {
	mu        sync.Mutex
	b         []byte
	destroyed bool
}

// NewSecretKey takes ownership of b. The caller must not use b afterwards.
func NewSecretKey(b []byte) *SecretKey {
	s := &SecretKey{b: b}
	runtime.AddCleanup(s, func(buf []byte) { clear(buf) }, b)
	return s
}

// Bytes returns the underlying buffer, or nil after Destroy. The slice is
// only valid until Destroy and must not be retained.
func (s *SecretKey) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return nil
	}
	return s.b
}

// Len returns the key length, 0 after Destroy.
func (s *SecretKey) Len() int {
	return len(s.Bytes())
}

// Destroy zeroes the buffer. It is safe to call more than once.
func (s *SecretKey) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.b)
	s.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (s *SecretKey) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

func (s *SecretKey) String() string               { return "[REDACTED]" }
func (s *SecretKey) GoString() string             { return "[REDACTED]" }
func (s *SecretKey) LogValue() slog.Value         { return slog.StringValue("[REDACTED]") }
func (s *SecretKey) MarshalJSON() ([]byte, error) { return nil, ErrSecretNotSerializable }
func (s *SecretKey) MarshalText() ([]byte, error) { return nil, ErrSecretNotSerializable }

// Wallet is the decrypted, in-memory form of a keystore record. It exists only
// for the duration of signing work and is never persisted.
type Wallet struct {
	Address    string
	PrivateKey *SecretKey
	Source     WalletSource
}

// Close scrubs the private key.
func (w *Wallet) Close() {
	if w == nil {
		return
	}
	w.PrivateKey.Destroy()
}

func (w *Wallet) MarshalJSON() ([]byte, error) { return nil, ErrSecretNotSerializable }

func (w *Wallet) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("address", w.Address),
		slog.String("source", string(w.Source)),
	)
}
