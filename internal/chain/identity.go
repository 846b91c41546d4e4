// Package chain holds the process-wide signing identity and the RPC client
// handles built from it. Everything here is immutable after construction and
// safe to share between concurrent tool invocations.
package chain

import (
	"crypto/ecdsa"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"zoracoin/pkg/errors"
)

var privateKeyPattern = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

// Identity is a private key and the account address derived from it.
type Identity struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewIdentity derives the signing account from a 0x-prefixed hex secret.
func NewIdentity(secret string) (*Identity, error) {
	if secret == "" {
		return nil, errors.NewConfigurationError("PRIVATE_KEY", "is not set")
	}
	if !privateKeyPattern.MatchString(secret) {
		return nil, errors.NewConfigurationError("PRIVATE_KEY", "must be a hex string starting with 0x")
	}

	key, err := crypto.HexToECDSA(secret[2:])
	if err != nil {
		return nil, errors.NewConfigurationError("PRIVATE_KEY", "is not a valid secp256k1 private key")
	}

	return &Identity{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the account address
func (i *Identity) Address() common.Address {
	return i.address
}

// String never exposes the key
func (i *Identity) String() string {
	return i.address.Hex()
}
