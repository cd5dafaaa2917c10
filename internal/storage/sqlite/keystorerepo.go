package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexZinkM/wallet-keystore/internal/crypto"
	"github.com/AlexZinkM/wallet-keystore/internal/keystore"
	"github.com/AlexZinkM/wallet-keystore/internal/model"
)

// Compile-time interface satisfaction check.
var _ keystore.Store = (*KeystoreRepo)(nil)

// KeystoreRepo is the SQLite implementation of the keystore.Store port.
type KeystoreRepo struct {
	db *DB
}

// NewKeystoreRepo creates a new KeystoreRepo.
func NewKeystoreRepo(db *DB) *KeystoreRepo {
	return &KeystoreRepo{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertKeystore(ctx context.Context, ex execer, k model.LocalKeystore) error {
	credentialID, _ := k.CredentialID()
	nfcUID, _ := k.NFCUID()

	const query = `INSERT INTO keystores (address, encrypted_private_key, source, credential_id, nfc_uid, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := ex.ExecContext(ctx, query,
		k.Address,
		k.EncryptedPrivateKey,
		string(k.Source()),
		nullString(credentialID),
		nullString(nfcUID),
		k.CreatedAt,
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new keystore record.
func (r *KeystoreRepo) Create(ctx context.Context, k model.LocalKeystore) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	const existsQuery = `SELECT EXISTS(SELECT 1 FROM keystores WHERE address = ?)`
	if err := tx.QueryRowContext(ctx, existsQuery, k.Address).Scan(&exists); err != nil {
		return fmt.Errorf("check keystore %q: %w", k.Address, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", k.Address, keystore.ErrAlreadyExists)
	}

	if err := insertKeystore(ctx, tx, k); err != nil {
		return fmt.Errorf("insert keystore %q: %w", k.Address, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit keystore %q: %w", k.Address, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKeystore(row scanner) (model.LocalKeystore, error) {
	var (
		k            model.LocalKeystore
		source       string
		credentialID sql.NullString
		nfcUID       sql.NullString
	)
	if err := row.Scan(&k.Address, &k.EncryptedPrivateKey, &source, &credentialID, &nfcUID, &k.CreatedAt); err != nil {
		return model.LocalKeystore{}, err
	}

	prov, err := model.NewProvisioning(model.WalletSource(source), credentialID.String, nfcUID.String)
	if err != nil {
		return model.LocalKeystore{}, fmt.Errorf("keystore %q: %w", k.Address, err)
	}
	k.Provisioning = prov
	return k, nil
}

const selectColumns = `SELECT address, encrypted_private_key, source, credential_id, nfc_uid, created_at FROM keystores`

// Get retrieves the keystore record for address.
func (r *KeystoreRepo) Get(ctx context.Context, address string) (model.LocalKeystore, error) {
	row := r.db.Reader.QueryRowContext(ctx, selectColumns+` WHERE address = ?`, address)
	k, err := scanKeystore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LocalKeystore{}, fmt.Errorf("%s: %w", address, keystore.ErrNotFound)
	}
	if err != nil {
		return model.LocalKeystore{}, fmt.Errorf("get keystore %q: %w", address, err)
	}
	return k, nil
}

// List returns all keystore records ordered by address.
func (r *KeystoreRepo) List(ctx context.Context) ([]model.LocalKeystore, error) {
	rows, err := r.db.Reader.QueryContext(ctx, selectColumns+` ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("list keystores: %w", err)
	}
	defer rows.Close()

	var out []model.LocalKeystore
	for rows.Next() {
		k, err := scanKeystore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan keystore: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keystores: %w", err)
	}
	return out, nil
}

// Delete removes the keystore record for address.
func (r *KeystoreRepo) Delete(ctx context.Context, address string) error {
	res, err := r.db.Writer.ExecContext(ctx, `DELETE FROM keystores WHERE address = ?`, address)
	if err != nil {
		return fmt.Errorf("delete keystore %q: %w", address, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete keystore %q: %w", address, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", address, keystore.ErrNotFound)
	}
	return nil
}

// ReplaceAll swaps the whole record set inside one transaction.
func (r *KeystoreRepo) ReplaceAll(ctx context.Context, ks []model.LocalKeystore) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM keystores`); err != nil {
		return fmt.Errorf("clear keystores: %w", err)
	}
	for _, k := range ks {
		if err := insertKeystore(ctx, tx, k); err != nil {
			return fmt.Errorf("insert keystore %q: %w", k.Address, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit keystores: %w", err)
	}
	return nil
}

// KDFSalt returns the stored key-derivation salt, creating it on first call.
func (r *KeystoreRepo) KDFSalt(ctx context.Context) ([]byte, error) {
	const selectQuery = `SELECT salt FROM kdf_meta WHERE id = 1`

	var salt []byte
	err := r.db.Writer.QueryRowContext(ctx, selectQuery).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get kdf salt: %w", err)
	}

	fresh, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Writer.ExecContext(ctx, `INSERT OR IGNORE INTO kdf_meta (id, salt) VALUES (1, ?)`, fresh); err != nil {
		return nil, fmt.Errorf("set kdf salt: %w", err)
	}
	// Re-read in case another writer won the insert.
	if err := r.db.Writer.QueryRowContext(ctx, selectQuery).Scan(&salt); err != nil {
		return nil, fmt.Errorf("get kdf salt: %w", err)
	}
	return salt, nil
}
