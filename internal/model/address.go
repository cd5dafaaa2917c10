package model

import (
	"slices"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
)

// AddressFormat is the textual family an account address belongs to.
type AddressFormat string

const (
	AddressFormatHex    AddressFormat = "hex"
	AddressFormatBech32 AddressFormat = "bech32"
)

// ClassifyAddress returns the format of address, or ErrInvalidAddressFormat.
// Hex addresses are 0x followed by 40 hex digits; mixed-case checksums are
// accepted but not verified. Bech32 addresses must carry a valid bech32 or
// bech32m checksum and, when prefixes is non-empty, one of the listed
// human-readable parts.
func ClassifyAddress(address string, prefixes []string) (AddressFormat, error) {
	if address == "" {
		return "", invalid("address", ErrInvalidAddressFormat, "empty")
	}

	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		if !common.IsHexAddress(address) {
			return "", invalid("address", ErrInvalidAddressFormat, "not a 20-byte hex address")
		}
		return AddressFormatHex, nil
	}

	hrp, _, err := bech32.Decode(address)
	if err != nil {
		return "", invalid("address", ErrInvalidAddressFormat, "neither hex nor bech32: %v", err)
	}
	if len(prefixes) > 0 && !slices.Contains(prefixes, hrp) {
		return "", invalid("address", ErrInvalidAddressFormat, "prefix %q not accepted", hrp)
	}
	return AddressFormatBech32, nil
}

// ValidateAddress reports whether address is in an accepted format.
func ValidateAddress(address string, prefixes []string) error {
	_, err := ClassifyAddress(address, prefixes)
	return err
}

// CanonicalAddress returns the form a record is stored under: EIP-55
// checksum casing for hex, lower case for bech32.
func CanonicalAddress(address string, format AddressFormat) string {
	switch format {
	case AddressFormatHex:
		return common.HexToAddress(address).Hex()
	case AddressFormatBech32:
		return strings.ToLower(address)
	}
	return address
}

// NormalizeAddress canonicalizes address for lookups. Strings that are not
// an address of either format are returned unchanged.
func NormalizeAddress(address string) string {
	format, err := ClassifyAddress(address, nil)
	if err != nil {
		return address
	}
	return CanonicalAddress(address, format)
}
