package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultMaxClockSkew is how far in the future a record's CreatedAt may lie.
const DefaultMaxClockSkew = 5 * time.Minute

// LocalKeystore is the persisted, encrypted credential record of one wallet.
type LocalKeystore struct {
	Address             string
	EncryptedPrivateKey string
	Provisioning        Provisioning
	CreatedAt           int64 // seconds since epoch
}

// Source returns the provisioning source, or "" when unset.
func (k LocalKeystore) Source() WalletSource {
	if isNilProvisioning(k.Provisioning) {
		return ""
	}
	return k.Provisioning.Source()
}

// CredentialID returns the passkey credential ID of a passkey-provisioned record.
func (k LocalKeystore) CredentialID() (string, bool) {
	switch p := k.Provisioning.(type) {
	case PasskeyProvisioning:
		return p.CredentialID, true
	case *PasskeyProvisioning:
		if p != nil {
			return p.CredentialID, true
		}
	}
	return "", false
}

// NFCUID returns the tag UID of an NFC-provisioned record.
func (k LocalKeystore) NFCUID() (string, bool) {
	switch p := k.Provisioning.(type) {
	case NFCProvisioning:
		return p.UID, true
	case *NFCProvisioning:
		if p != nil {
			return p.UID, true
		}
	}
	return "", false
}

// Payload parses EncryptedPrivateKey.
func (k LocalKeystore) Payload() (EncryptedData, error) {
	return ParseEncryptedData(k.EncryptedPrivateKey)
}

// CreatedTime returns CreatedAt as a time.Time.
func (k LocalKeystore) CreatedTime() time.Time {
	return time.Unix(k.CreatedAt, 0)
}

// keystoreJSON is the flat at-rest shape.
type keystoreJSON struct {
	Address             string       `json:"address"`
	EncryptedPrivateKey string       `json:"encryptedPrivateKey"`
	Source              WalletSource `json:"source"`
	CredentialID        string       `json:"credentialId,omitempty"`
	NFCUID              string       `json:"nfcUID,omitempty"`
	CreatedAt           int64        `json:"createdAt"`
}

func (k LocalKeystore) MarshalJSON() ([]byte, error) {
	if isNilProvisioning(k.Provisioning) {
		return nil, invalid("source", ErrInconsistentSourceFields, "missing")
	}
	out := keystoreJSON{
		Address:             k.Address,
		EncryptedPrivateKey: k.EncryptedPrivateKey,
		Source:              k.Source(),
		CreatedAt:           k.CreatedAt,
	}
	out.CredentialID, _ = k.CredentialID()
	out.NFCUID, _ = k.NFCUID()
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat shape and rejects auxiliary fields that do
// not belong to the declared source.
func (k *LocalKeystore) UnmarshalJSON(data []byte) error {
	var in keystoreJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	prov, err := NewProvisioning(in.Source, in.CredentialID, in.NFCUID)
	if err != nil {
		return err
	}
	*k = LocalKeystore{
		Address:             in.Address,
		EncryptedPrivateKey: in.EncryptedPrivateKey,
		Provisioning:        prov,
		CreatedAt:           in.CreatedAt,
	}
	return nil
}

// Validator checks LocalKeystore records.
type Validator struct {
	// Now returns the current time; nil means time.Now.
	Now func() time.Time
	// MaxClockSkew bounds how far CreatedAt may lie in the future.
	MaxClockSkew time.Duration
	// Bech32Prefixes restricts accepted bech32 human-readable parts; empty accepts any.
	Bech32Prefixes []string
}

// DefaultValidator uses the wall clock and DefaultMaxClockSkew.
func DefaultValidator() Validator {
	return Validator{Now: time.Now, MaxClockSkew: DefaultMaxClockSkew}
}

// Validate checks k with DefaultValidator.
func Validate(k LocalKeystore) error {
	return DefaultValidator().Validate(k)
}

// Validate returns the first field-level failure of k as a *ValidationError,
// or nil.
func (v Validator) Validate(k LocalKeystore) error {
	if err := ValidateAddress(k.Address, v.Bech32Prefixes); err != nil {
		return err
	}
	if err := validateContent(k); err != nil {
		return err
	}
	return v.validateCreatedAt(k.CreatedAt)
}

// ValidateStored checks the structure of a record that was already accepted
// once: address format without a prefix allow-list, payload, source fields
// and a non-negative CreatedAt. Configuration and clock changes made after
// the record was written cannot fail it.
func ValidateStored(k LocalKeystore) error {
	if err := ValidateAddress(k.Address, nil); err != nil {
		return err
	}
	if err := validateContent(k); err != nil {
		return err
	}
	if k.CreatedAt < 0 {
		return invalid("createdAt", ErrInvalidTimestamp, "negative")
	}
	return nil
}

func validateContent(k LocalKeystore) error {
	if _, err := ParseEncryptedData(k.EncryptedPrivateKey); err != nil {
		return err
	}
	if isNilProvisioning(k.Provisioning) {
		return invalid("source", ErrInconsistentSourceFields, "missing")
	}
	return k.Provisioning.validate()
}

func (v Validator) validateCreatedAt(createdAt int64) error {
	if createdAt < 0 {
		return invalid("createdAt", ErrInvalidTimestamp, "negative")
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	limit := now().Add(v.MaxClockSkew).Unix()
	if createdAt > limit {
		return invalid("createdAt", ErrInvalidTimestamp, "%s is in the future", time.Unix(createdAt, 0).UTC().Format(time.RFC3339))
	}
	return nil
}

func (k LocalKeystore) String() string {
	return fmt.Sprintf("keystore(%s, %s)", k.Address, k.Source())
}
