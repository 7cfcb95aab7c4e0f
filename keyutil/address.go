package keyutil

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
)

// PrivateKeyAddress returns the pay-to-pubkey-hash address of the key. The
// public key is hashed in the form the WIF's compression flag selects.
func PrivateKeyAddress(wif *btcutil.WIF,
	params *chaincfg.Params) (string, error) {

	return pubKeyHashAddress(wif.SerializePubKey(), params)
}

// PublicKeyToAddress hashes the serialized public key exactly as given and
// returns the pay-to-pubkey-hash address.
func PublicKeyToAddress(pubKeyHex string,
	params *chaincfg.Params) (string, error) {

	if _, _, err := ParsePublicKey(pubKeyHex); err != nil {
		return "", err
	}

	pubKeyBytes, _ := hex.DecodeString(pubKeyHex)

	return pubKeyHashAddress(pubKeyBytes, params)
}

// PubkeyAddresses returns the compressed and uncompressed pay-to-pubkey-hash
// addresses of a public key, which may be given in either form. This is what
// signature verification by key address needs, since the signer may have used
// either encoding.
func PubkeyAddresses(pubKeyHex string,
	params *chaincfg.Params) (string, string, error) {

	pubKey, _, err := ParsePublicKey(pubKeyHex)
	if err != nil {
		return "", "", err
	}

	compressed, err := pubKeyHashAddress(
		pubKey.SerializeCompressed(), params,
	)
	if err != nil {
		return "", "", err
	}

	uncompressed, err := pubKeyHashAddress(
		pubKey.SerializeUncompressed(), params,
	)
	if err != nil {
		return "", "", err
	}

	return compressed, uncompressed, nil
}

// IsAddress returns true if s is a well formed base58check address with one
// of the version bytes of the given network.
func IsAddress(s string, params *chaincfg.Params) bool {
	decoded, version, err := base58.CheckDecode(s)
	if err != nil || len(decoded) != 20 {
		return false
	}

	return version == params.PubKeyHashAddrID ||
		version == params.ScriptHashAddrID
}

// KeyFingerprint returns a short, non-secret identifier for a private key
// suitable for log lines: the first four bytes of the hash160 of its
// compressed public key.
func KeyFingerprint(wif *btcutil.WIF) string {
	pubKeyHash := btcutil.Hash160(wif.PrivKey.PubKey().SerializeCompressed())

	return hex.EncodeToString(pubKeyHash[:4])
}

func pubKeyHashAddress(serializedPubKey []byte,
	params *chaincfg.Params) (string, error) {

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(serializedPubKey), params,
	)
	if err != nil {
		return "", fmt.Errorf("unable to create address: %w", err)
	}

	return addr.EncodeAddress(), nil
}
