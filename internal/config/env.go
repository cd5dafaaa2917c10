package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"

	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
)

// Store drivers accepted in WALLET_STORE_DRIVER.
const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

// Config contains all configuration parameters for the application.
// Note: passwords are never read from the environment - use PromptForPassword()
type Config struct {
	Port             string        `envconfig:"PORT" default:"8080"`
	StoreDriver      string        `envconfig:"STORE_DRIVER" default:"file"`
	KeystoreFilePath string        `envconfig:"KEYSTORE_FILE_PATH" default:"wallets.json"`
	SQLitePath       string        `envconfig:"SQLITE_PATH" default:"wallets.db"`
	MaxClockSkew     time.Duration `envconfig:"MAX_CLOCK_SKEW" default:"5m"`
	Bech32Prefixes   []string      `envconfig:"BECH32_PREFIXES"`
	ScryptN          int           `envconfig:"SCRYPT_N" default:"262144"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Load reads WALLET_ prefixed environment variables and validates them.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("WALLET", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch c.StoreDriver {
	case StoreDriverFile, StoreDriverSQLite:
	default:
		return nil, fmt.Errorf("unknown store driver %q: want %q or %q", c.StoreDriver, StoreDriverFile, StoreDriverSQLite)
	}
	if c.MaxClockSkew < 0 {
		return nil, errors.New("WALLET_MAX_CLOCK_SKEW must not be negative")
	}
	// scrypt requires N to be a power of two greater than 1.
	if c.ScryptN < 2 || c.ScryptN&(c.ScryptN-1) != 0 {
		return nil, fmt.Errorf("WALLET_SCRYPT_N must be a power of two > 1, got %d", c.ScryptN)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return nil, err
	}
	for i, p := range c.Bech32Prefixes {
		c.Bech32Prefixes[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return c, nil
}

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// KDFParams returns scrypt parameters with the configured cost.
func (c *Config) KDFParams() crypto.KDFParams {
	p := crypto.DefaultKDFParams()
	p.N = c.ScryptN
	return p
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid WALLET_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// readHidden reads one line from the terminal without echoing it.
func readHidden(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return raw, nil
}

// PromptForPassword prompts for a password in the terminal. The input is
// hidden. Caller must zero the returned slice after use.
func PromptForPassword(prompt string) ([]byte, error) {
	raw, err := readHidden(prompt)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}

// PromptForPrivateKey reads a hex-encoded private key from the terminal and
// returns its raw bytes. Caller must zero the returned slice after use.
func PromptForPrivateKey() ([]byte, error) {
	raw, err := readHidden("Enter private key (hex): ")
	if err != nil {
		return nil, err
	}
	defer clear(raw)

	return DecodePrivateKey(raw)
}

// DecodePrivateKey decodes a hex private key, with or without 0x prefix.
func DecodePrivateKey(raw []byte) ([]byte, error) {
	trimmed := raw
	if len(trimmed) >= 2 && trimmed[0] == '0' && (trimmed[1] == 'x' || trimmed[1] == 'X') {
		trimmed = trimmed[2:]
	}
	if len(trimmed) == 0 {
		return nil, errors.New("private key cannot be empty")
	}

	key := make([]byte, hex.DecodedLen(len(trimmed)))
	if _, err := hex.Decode(key, trimmed); err != nil {
		clear(key)
		return nil, errors.New("private key is not valid hex")
	}
	return key, nil
}
