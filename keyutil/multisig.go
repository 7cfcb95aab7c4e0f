package keyutil

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ErrInvalidRedeemScript is returned when a redeem script is not a standard
// m-of-n multisig script.
var ErrInvalidRedeemScript = errors.New("invalid multisig redeem script")

// ParseMultisigRedeemScript extracts the signature threshold and the hex
// public keys from a standard multisig redeem script.
func ParseMultisigRedeemScript(redeemScriptHex string,
	params *chaincfg.Params) (int, []string, error) {

	script, err := hex.DecodeString(redeemScriptHex)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidRedeemScript, err)
	}

	class, addrs, reqSigs, err := txscript.ExtractPkScriptAddrs(
		script, params,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidRedeemScript, err)
	}
	if class != txscript.MultiSigTy {
		return 0, nil, fmt.Errorf("%w: script class is %v",
			ErrInvalidRedeemScript, class)
	}

	pubKeys := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		pubKeys = append(pubKeys, hex.EncodeToString(addr.ScriptAddress()))
	}

	return reqSigs, pubKeys, nil
}

// MultisigAddress returns the pay-to-script-hash address of a hex redeem
// script.
func MultisigAddress(redeemScriptHex string,
	params *chaincfg.Params) (string, error) {

	script, err := hex.DecodeString(redeemScriptHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRedeemScript, err)
	}

	addr, err := btcutil.NewAddressScriptHash(script, params)
	if err != nil {
		return "", err
	}

	return addr.EncodeAddress(), nil
}

// MultisigRedeemScript builds an m-of-n redeem script over the public keys of
// the given private keys, in order. Each public key is serialized in the form
// its private key's compression flag selects.
func MultisigRedeemScript(m int, privKeys []*btcutil.WIF,
	params *chaincfg.Params) (string, error) {

	if m < 1 || m > len(privKeys) {
		return "", fmt.Errorf("%w: cannot require %d of %d signatures",
			ErrInvalidRedeemScript, m, len(privKeys))
	}

	pubKeys := make([]*btcutil.AddressPubKey, 0, len(privKeys))
	for _, wif := range privKeys {
		pubKey, err := btcutil.NewAddressPubKey(
			wif.SerializePubKey(), params,
		)
		if err != nil {
			return "", err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	script, err := txscript.MultiSigScript(pubKeys, m)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(script), nil
}
