package keychain

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/namewallet/walletkeys/keyutil"
)

const (
	// MaxChildIndex is the largest index that can be passed to a hardened
	// derivation. The hardened offset is added internally, so callers use
	// plain indexes starting at zero.
	MaxChildIndex = hdkeychain.HardenedKeyStart - 1

	// compressedSuffix marks derived private keys as using compressed
	// public keys.
	compressedSuffix = "01"
)

var (
	// ErrInvalidKey is returned when a master private key is not a well
	// formed hex private key.
	ErrInvalidKey = errors.New("invalid master private key")

	// ErrInvalidIndex is returned for child indexes outside of
	// [0, MaxChildIndex].
	ErrInvalidIndex = errors.New("invalid child index")

	// zeroChainCode is the chain code of a keychain built directly from a
	// private key. Wallets created from a bare master key never had a
	// seed, so there is no chain code to recover.
	zeroChainCode [32]byte

	// zeroFingerprint is the parent fingerprint of a root node.
	zeroFingerprint = []byte{0x00, 0x00, 0x00, 0x00}
)

// Keychain is a node in a hierarchical deterministic key tree that holds its
// private key and can derive hardened children.
type Keychain interface {
	// PrivateKey returns the canonical hex encoding of this node's private
	// key.
	PrivateKey() string

	// HardenedChild derives the hardened child at index. The index must
	// not include the hardened offset.
	HardenedChild(index uint32) (Keychain, error)
}

// extendedKeychain implements Keychain on top of a BIP32 extended private
// key.
type extendedKeychain struct {
	key *hdkeychain.ExtendedKey
}

// A compile-time check to ensure extendedKeychain implements Keychain.
var _ Keychain = (*extendedKeychain)(nil)

// FromPrivateKey builds the root keychain for a master private key. The
// private key is used as the root node's key directly, with an all zero
// chain code.
func FromPrivateKey(privKey string, params *chaincfg.Params) (Keychain,
	error) {

	wif, err := keyutil.ParsePrivateKey(privKey, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return fromWIF(wif, params), nil
}

func fromWIF(wif *btcutil.WIF, params *chaincfg.Params) *extendedKeychain {
	root := hdkeychain.NewExtendedKey(
		params.HDPrivateKeyID[:], wif.PrivKey.Serialize(),
		zeroChainCode[:], zeroFingerprint, 0, 0, true,
	)

	// Derive memoizes the parent public key on first use. Do it now so the
	// root can be shared between goroutines read-only.
	_, _ = root.ECPubKey()

	return &extendedKeychain{key: root}
}

// PrivateKey returns the node's private key as 64 hex characters followed by
// the compression marker.
func (e *extendedKeychain) PrivateKey() string {
	privKey, err := e.key.ECPrivKey()
	if err != nil {
		// Only possible for public nodes, which are never built here.
		panic(fmt.Sprintf("keychain node without private key: %v", err))
	}

	return hex.EncodeToString(privKey.Serialize()) + compressedSuffix
}

// HardenedChild derives the hardened child at index.
func (e *extendedKeychain) HardenedChild(index uint32) (Keychain, error) {
	if index > MaxChildIndex {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidIndex,
			index, MaxChildIndex)
	}

	child, err := e.key.Derive(hdkeychain.HardenedKeyStart + index)
	if err != nil {
		return nil, err
	}

	return &extendedKeychain{key: child}, nil
}

// checkIndex validates a caller supplied child index.
func checkIndex(index int) (uint32, error) {
	if index < 0 || int64(index) > int64(MaxChildIndex) {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidIndex,
			index, MaxChildIndex)
	}

	return uint32(index), nil
}
