package model

import (
	"encoding/hex"
	"strings"
)

// payloadSeparator joins the components of an encrypted payload. Hex never
// contains it, so splitting is unambiguous.
const payloadSeparator = ":"

// EncryptedData is the parsed form of an encrypted payload: iv:tag:encrypted,
// each component hex-encoded.
type EncryptedData struct {
	IV        string `json:"iv"`
	Tag       string `json:"tag"`
	Encrypted string `json:"encrypted"`
}

// NewEncryptedData hex-encodes raw cipher output.
func NewEncryptedData(iv, tag, encrypted []byte) EncryptedData {
	return EncryptedData{
		IV:        hex.EncodeToString(iv),
		Tag:       hex.EncodeToString(tag),
		Encrypted: hex.EncodeToString(encrypted),
	}
}

// ParseEncryptedData splits s into its three components. It fails unless s
// holds exactly three non-empty hex segments.
func ParseEncryptedData(s string) (EncryptedData, error) {
	parts := strings.Split(s, payloadSeparator)
	if len(parts) != 3 {
		return EncryptedData{}, invalid("encryptedPrivateKey", ErrInvalidEncryptedPayloadFormat,
			"expected 3 colon-separated segments, got %d", len(parts))
	}

	d := EncryptedData{IV: parts[0], Tag: parts[1], Encrypted: parts[2]}
	if err := d.Validate(); err != nil {
		return EncryptedData{}, err
	}
	return d, nil
}

// Serialize joins the components with ':'.
func (d EncryptedData) Serialize() string {
	return d.IV + payloadSeparator + d.Tag + payloadSeparator + d.Encrypted
}

func (d EncryptedData) String() string {
	return d.Serialize()
}

// Validate checks that every component is a non-empty hex string.
func (d EncryptedData) Validate() error {
	for _, seg := range []struct{ name, value string }{
		{"iv", d.IV},
		{"tag", d.Tag},
		{"encrypted", d.Encrypted},
	} {
		if seg.value == "" {
			return invalid("encryptedPrivateKey", ErrInvalidEncryptedPayloadFormat, "%s segment is empty", seg.name)
		}
		if _, err := hex.DecodeString(seg.value); err != nil {
			return invalid("encryptedPrivateKey", ErrInvalidEncryptedPayloadFormat, "%s segment is not hex", seg.name)
		}
	}
	return nil
}

// Decode returns the raw bytes of each component.
func (d EncryptedData) Decode() (iv, tag, encrypted []byte, err error) {
	if err := d.Validate(); err != nil {
		return nil, nil, nil, err
	}
	// Validate already proved each segment decodes.
	iv, _ = hex.DecodeString(d.IV)
	tag, _ = hex.DecodeString(d.Tag)
	encrypted, _ = hex.DecodeString(d.Encrypted)
	return iv, tag, encrypted, nil
}
