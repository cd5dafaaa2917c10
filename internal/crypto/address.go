package crypto

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EthereumAddress returns the EIP-55 checksummed hex address of a raw
// secp256k1 private key.
func EthereumAddress(privateKey []byte) (string, error) {
	key, err := ethcrypto.ToECDSA(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid secp256k1 private key: %w", err)
	}
	defer key.D.SetInt64(0) // best effort

	return ethcrypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}
