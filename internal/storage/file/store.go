package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

const documentVersion = 1

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Compile-time interface satisfaction check.
var _ keystore.Store = (*Store)(nil)

// document is the on-disk structure of a keystore file.
type document struct {
	Version int                   `json:"version"`
	Salt    string                `json:"salt"`
	Wallets []model.LocalKeystore `json:"wallets"`
}

// Store keeps every keystore record in a single JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a Store backed by path. The file is created on first write.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("keystore file path is empty")
	}
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("file must have .json extension")
	}
	return &Store{path: path}, nil
}

// read loads the document. A missing or empty file yields an empty document.
func (s *Store) read() (*document, error) {
	fileData, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{Version: documentVersion}, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	fileData = trimBOM(fileData)
	if len(fileData) == 0 {
		return &document{Version: documentVersion}, nil
	}

	var doc document
	if err := json.Unmarshal(fileData, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore file: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported keystore file version %d", doc.Version)
	}
	return &doc, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(doc *document) error {
	slices.SortFunc(doc.Wallets, func(a, b model.LocalKeystore) int {
		return strings.Compare(a.Address, b.Address)
	})

	fileData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	// Add UTF-8 BOM for proper display in Windows
	if _, err := tmp.Write(append(slices.Clone(utf8BOM), fileData...)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// indexOf matches addresses case-insensitively; hex and bech32 casing
// carries no identity.
func indexOf(doc *document, address string) int {
	return slices.IndexFunc(doc.Wallets, func(k model.LocalKeystore) bool {
		return strings.EqualFold(k.Address, address)
	})
}

// Create adds k to the file.
func (s *Store) Create(_ context.Context, k model.LocalKeystore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if indexOf(doc, k.Address) >= 0 {
		return fmt.Errorf("%s: %w", k.Address, keystore.ErrAlreadyExists)
	}
	doc.Wallets = append(doc.Wallets, k)
	return s.write(doc)
}

// Get returns the record for address.
func (s *Store) Get(_ context.Context, address string) (model.LocalKeystore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return model.LocalKeystore{}, err
	}
	i := indexOf(doc, address)
	if i < 0 {
		return model.LocalKeystore{}, fmt.Errorf("%s: %w", address, keystore.ErrNotFound)
	}
	return doc.Wallets[i], nil
}

// List returns all records ordered by address.
func (s *Store) List(_ context.Context) ([]model.LocalKeystore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	out := slices.Clone(doc.Wallets)
	slices.SortFunc(out, func(a, b model.LocalKeystore) int {
		return strings.Compare(a.Address, b.Address)
	})
	return out, nil
}

// Delete removes the record for address.
func (s *Store) Delete(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	i := indexOf(doc, address)
	if i < 0 {
		return fmt.Errorf("%s: %w", address, keystore.ErrNotFound)
	}
	doc.Wallets = slices.Delete(doc.Wallets, i, i+1)
	return s.write(doc)
}

// ReplaceAll swaps the record set in a single file write, keeping the salt.
func (s *Store) ReplaceAll(_ context.Context, ks []model.LocalKeystore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(ks))
	for _, k := range ks {
		key := strings.ToLower(k.Address)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%s: %w", k.Address, keystore.ErrAlreadyExists)
		}
		seen[key] = struct{}{}
	}
	doc.Wallets = slices.Clone(ks)
	return s.write(doc)
}

// KDFSalt returns the salt stored in the file header, generating and
// persisting one if the file has none yet.
func (s *Store) KDFSalt(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if doc.Salt != "" {
		salt, err := base64.StdEncoding.DecodeString(doc.Salt)
		if err != nil {
			return nil, fmt.Errorf("failed to decode salt: %w", err)
		}
		return salt, nil
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	doc.Salt = base64.StdEncoding.EncodeToString(salt)
	if err := s.write(doc); err != nil {
		return nil, err
	}
	return salt, nil
}
