package model

// WalletSource is how a wallet was provisioned.
type WalletSource string

const (
	WalletSourcePasskey WalletSource = "passkey"
	WalletSourceNFC     WalletSource = "nfc"
	WalletSourceImport  WalletSource = "import"
)

// Valid reports whether s is one of the known sources.
func (s WalletSource) Valid() bool {
	switch s {
	case WalletSourcePasskey, WalletSourceNFC, WalletSourceImport:
		return true
	}
	return false
}

func (s WalletSource) String() string {
	return string(s)
}

// Provisioning is the source of a keystore record together with the one
// auxiliary identifier that source carries. The set of implementations is
// closed: PasskeyProvisioning, NFCProvisioning and ImportProvisioning.
type Provisioning interface {
	Source() WalletSource
	validate() error
}

// PasskeyProvisioning is a wallet bound to a platform passkey credential.
type PasskeyProvisioning struct {
	CredentialID string
}

func (PasskeyProvisioning) Source() WalletSource { return WalletSourcePasskey }

func (p PasskeyProvisioning) validate() error {
	if p.CredentialID == "" {
		return invalid("credentialId", ErrInconsistentSourceFields, "required when source is %s", WalletSourcePasskey)
	}
	return nil
}

// NFCProvisioning is a wallet bound to an NFC tag.
type NFCProvisioning struct {
	UID string
}

func (NFCProvisioning) Source() WalletSource { return WalletSourceNFC }

func (p NFCProvisioning) validate() error {
	if p.UID == "" {
		return invalid("nfcUID", ErrInconsistentSourceFields, "required when source is %s", WalletSourceNFC)
	}
	return nil
}

// ImportProvisioning is a wallet whose key was imported directly.
type ImportProvisioning struct{}

func (ImportProvisioning) Source() WalletSource { return WalletSourceImport }

func (ImportProvisioning) validate() error { return nil }

// NewProvisioning builds the variant for source from the flat at-rest fields,
// where an empty string means the field is absent.
func NewProvisioning(source WalletSource, credentialID, nfcUID string) (Provisioning, error) {
	switch source {
	case WalletSourcePasskey:
		if nfcUID != "" {
			return nil, invalid("nfcUID", ErrInconsistentSourceFields, "must be absent when source is %s", source)
		}
		p := PasskeyProvisioning{CredentialID: credentialID}
		if err := p.validate(); err != nil {
			return nil, err
		}
		return p, nil
	case WalletSourceNFC:
		if credentialID != "" {
			return nil, invalid("credentialId", ErrInconsistentSourceFields, "must be absent when source is %s", source)
		}
		p := NFCProvisioning{UID: nfcUID}
		if err := p.validate(); err != nil {
			return nil, err
		}
		return p, nil
	case WalletSourceImport:
		if credentialID != "" {
			return nil, invalid("credentialId", ErrInconsistentSourceFields, "must be absent when source is %s", source)
		}
		if nfcUID != "" {
			return nil, invalid("nfcUID", ErrInconsistentSourceFields, "must be absent when source is %s", source)
		}
		return ImportProvisioning{}, nil
	default:
		return nil, invalid("source", ErrInconsistentSourceFields, "unknown source %q", source)
	}
}

// isNilProvisioning reports whether p is nil or a typed nil pointer to one
// of the variants.
func isNilProvisioning(p Provisioning) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *PasskeyProvisioning:
		return v == nil
	case *NFCProvisioning:
		return v == nil
	case *ImportProvisioning:
		return v == nil
	}
	return false
}
