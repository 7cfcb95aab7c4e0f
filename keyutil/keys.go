package keyutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// PrivKeyHexLen is the length of a hex encoded private scalar.
	PrivKeyHexLen = btcec.PrivKeyBytesLen * 2

	// compressedSuffix is the trailing byte that marks a private key whose
	// public key should be serialized in compressed form.
	compressedSuffix = "01"
)

var (
	// ErrInvalidPrivateKey is returned when a string cannot be decoded
	// into a valid secp256k1 private key.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey is returned when a string cannot be decoded into
	// a point on the secp256k1 curve.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ParsePrivateKey decodes a private key given either as 64 hex characters
// (uncompressed), 66 hex characters ending in 01 (compressed) or as a WIF
// string. The returned WIF remembers which public key form the key uses.
func ParsePrivateKey(s string, params *chaincfg.Params) (*btcutil.WIF, error) {
	switch {
	case len(s) == PrivKeyHexLen && isHex(s):
		return privKeyFromHex(s, false, params)

	case len(s) == PrivKeyHexLen+2 && isHex(s):
		if !strings.EqualFold(s[PrivKeyHexLen:], compressedSuffix) {
			return nil, fmt.Errorf("%w: unknown key suffix %q",
				ErrInvalidPrivateKey, s[PrivKeyHexLen:])
		}

		return privKeyFromHex(s[:PrivKeyHexLen], true, params)
	}

	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if err := checkScalar(wif.PrivKey.Serialize()); err != nil {
		return nil, err
	}

	return wif, nil
}

// privKeyFromHex builds a WIF from a bare hex scalar.
func privKeyFromHex(s string, compress bool,
	params *chaincfg.Params) (*btcutil.WIF, error) {

	keyBytes, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	if err := checkScalar(keyBytes); err != nil {
		return nil, err
	}

	privKey, _ := btcec.PrivKeyFromBytes(keyBytes)

	return btcutil.NewWIF(privKey, params, compress)
}

// checkScalar rejects zero scalars and scalars that are not below the group
// order.
func checkScalar(keyBytes []byte) error {
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidPrivateKey, btcec.PrivKeyBytesLen,
			len(keyBytes))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow {
		return fmt.Errorf("%w: scalar exceeds curve order",
			ErrInvalidPrivateKey)
	}
	if scalar.IsZero() {
		return fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}

	return nil
}

// PrivateKeyHex returns the canonical hex form of the key: the 32 byte scalar
// followed by 01 when the key is flagged as compressed.
func PrivateKeyHex(wif *btcutil.WIF) string {
	keyHex := hex.EncodeToString(wif.PrivKey.Serialize())
	if wif.CompressPubKey {
		keyHex += compressedSuffix
	}

	return keyHex
}

// CanonicalPrivateKey parses s and re-encodes it in canonical hex form.
func CanonicalPrivateKey(s string, params *chaincfg.Params) (string, error) {
	wif, err := ParsePrivateKey(s, params)
	if err != nil {
		return "", err
	}

	return PrivateKeyHex(wif), nil
}

// IsHexPrivateKey returns true if s is a valid private key in one of the two
// hex encodings.
func IsHexPrivateKey(s string) bool {
	if len(s) != PrivKeyHexLen && len(s) != PrivKeyHexLen+2 {
		return false
	}

	_, err := ParsePrivateKey(s, &chaincfg.MainNetParams)

	return err == nil
}

// PublicKeyHex returns the uncompressed hex encoding of the public key of a
// hex private key. A trailing compression byte is ignored.
func PublicKeyHex(privKeyHex string) (string, error) {
	if len(privKeyHex) > PrivKeyHexLen {
		if privKeyHex[PrivKeyHexLen:] != compressedSuffix {
			return "", fmt.Errorf("%w: unknown key suffix",
				ErrInvalidPrivateKey)
		}
		privKeyHex = privKeyHex[:PrivKeyHexLen]
	}

	wif, err := ParsePrivateKey(privKeyHex, &chaincfg.MainNetParams)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(wif.PrivKey.PubKey().SerializeUncompressed()),
		nil
}

// UncompressedKeyPair returns the uncompressed hex private key and the
// uncompressed hex public key for the private key s.
func UncompressedKeyPair(s string, params *chaincfg.Params) (string, string,
	error) {

	wif, err := ParsePrivateKey(s, params)
	if err != nil {
		return "", "", err
	}

	privKeyHex := hex.EncodeToString(wif.PrivKey.Serialize())
	pubKeyHex := hex.EncodeToString(
		wif.PrivKey.PubKey().SerializeUncompressed(),
	)

	return privKeyHex, pubKeyHex, nil
}

// ParsePublicKey decodes a hex public key in either compressed or
// uncompressed form. The boolean result reports whether the input was
// compressed.
func ParsePublicKey(pubKeyHex string) (*btcec.PublicKey, bool, error) {
	pubKeyBytes, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	var compressed bool
	switch len(pubKeyBytes) {
	case btcec.PubKeyBytesLenCompressed:
		compressed = true

	case secp256k1.PubKeyBytesLenUncompressed:

	default:
		return nil, false, fmt.Errorf("%w: unexpected length %d",
			ErrInvalidPublicKey, len(pubKeyBytes))
	}

	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return pubKey, compressed, nil
}

// CompressPublicKey converts a hex public key to its compressed form.
func CompressPublicKey(pubKeyHex string) (string, error) {
	pubKey, _, err := ParsePublicKey(pubKeyHex)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(pubKey.SerializeCompressed()), nil
}

// DecompressPublicKey converts a hex public key to its uncompressed form.
func DecompressPublicKey(pubKeyHex string) (string, error) {
	pubKey, _, err := ParsePublicKey(pubKeyHex)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(pubKey.SerializeUncompressed()), nil
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// IsHex returns true if s is a non-empty, even length hex string.
func IsHex(s string) bool {
	return len(s) > 0 && isHex(s)
}
