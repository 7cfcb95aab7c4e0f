package privkey

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/namewallet/walletkeys/keyutil"
)

// KeyParams describes the signing policy of a bundle: M signatures out of N
// keys are required.
type KeyParams struct {
	M int
	N int
}

// DefaultKeyParams is assumed when no bundle is given at all. Fee estimation
// sizes transactions for a 2-of-3 multisig in that case.
//
// NOTE: this is a policy fallback and not derived from any key material.
var DefaultKeyParams = KeyParams{M: 2, N: 3}

// PrivateKeyInfoParams returns the signing policy of a plaintext bundle:
// 1-of-1 for single-sig and the threshold of the redeem script for multisig.
// None is returned if the bundle is encrypted or its redeem script cannot be
// parsed. A nil bundle yields DefaultKeyParams.
func PrivateKeyInfoParams(info PrivateKeyInfo,
	params *chaincfg.Params) fn.Option[KeyParams] {

	if info == nil {
		log.Warnf("No private key info given, assuming %d-of-%d key "+
			"config", DefaultKeyParams.M, DefaultKeyParams.N)

		return fn.Some(DefaultKeyParams)
	}

	switch info := info.(type) {
	case SingleSig:
		return fn.Some(KeyParams{M: 1, N: 1})

	case *Multisig:
		if info == nil {
			return fn.None[KeyParams]()
		}

		m, pubKeys, err := keyutil.ParseMultisigRedeemScript(
			info.RedeemScript, params,
		)
		if err != nil {
			log.Debugf("Unable to parse redeem script: %v", err)
			return fn.None[KeyParams]()
		}

		return fn.Some(KeyParams{M: m, N: len(pubKeys)})

	default:
		return fn.None[KeyParams]()
	}
}

// Address returns the address of a plaintext bundle: pay-to-pubkey-hash for
// single-sig and pay-to-script-hash of the redeem script for multisig.
// ErrNoKeyInfo is returned for a nil bundle and ErrInvalidBundle for any
// other shape.
func Address(info PrivateKeyInfo, params *chaincfg.Params) (string, error) {
	if info == nil {
		return "", ErrNoKeyInfo
	}
	if err := validate(info); err != nil {
		return "", err
	}

	switch info := info.(type) {
	case SingleSig:
		wif, err := keyutil.ParsePrivateKey(string(info), params)
		if err != nil {
			return "", ErrInvalidBundle
		}

		return keyutil.PrivateKeyAddress(wif, params)

	case *Multisig:
		return keyutil.MultisigAddress(info.RedeemScript, params)

	default:
		return "", ErrInvalidBundle
	}
}

// MakeMultisigInfo builds an m-of-n multisig bundle over privKeys, with the
// redeem script and its address filled in.
func MakeMultisigInfo(m int, privKeys []string,
	params *chaincfg.Params) (*Multisig, error) {

	wifs := make([]*btcutil.WIF, 0, len(privKeys))
	canonical := make([]string, 0, len(privKeys))
	for _, privKey := range privKeys {
		wif, err := keyutil.ParsePrivateKey(privKey, params)
		if err != nil {
			return nil, err
		}
		wifs = append(wifs, wif)
		canonical = append(canonical, keyutil.PrivateKeyHex(wif))
	}

	script, err := keyutil.MultisigRedeemScript(m, wifs, params)
	if err != nil {
		return nil, err
	}

	address, err := keyutil.MultisigAddress(script, params)
	if err != nil {
		return nil, err
	}

	return &Multisig{
		Address:      address,
		PrivateKeys:  canonical,
		RedeemScript: script,
	}, nil
}
