package privkey

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/namewallet/walletkeys/keyutil"
	"github.com/namewallet/walletkeys/zonefile"
)

var (
	// ErrNoOwnerKey is returned when the wallet has no owner key.
	ErrNoOwnerKey = errors.New("No owner private key set")

	// ErrNoPaymentKey is returned when the wallet has no payment key.
	ErrNoPaymentKey = errors.New("No payment private key set")

	// ErrNoDataKey is returned when the wallet has no data key.
	ErrNoDataKey = errors.New("No data private key in wallet keys")

	// ErrDataKeyMismatch is returned when the zone file has no data key
	// and the wallet's data key is not the owner key.
	ErrDataKeyMismatch = errors.New("No zone file key, and data key does " +
		"not match owner key")

	// ErrZonefileKeyMismatch is returned when the zone file publishes a
	// data key the wallet does not hold.
	ErrZonefileKeyMismatch = errors.New("Zone file data key does not " +
		"match wallet data key")
)

// WalletKeys is the set of key bundles of a wallet. Any of them may be nil.
type WalletKeys struct {
	// DataPrivKey signs user data. It is always single-sig.
	DataPrivKey PrivateKeyInfo

	// OwnerPrivKey controls the wallet's names.
	OwnerPrivKey PrivateKeyInfo

	// PaymentPrivKey funds transactions.
	PaymentPrivKey PrivateKeyInfo
}

// walletKeysJSON is the JSON form of WalletKeys.
type walletKeysJSON struct {
	DataPrivKey    json.RawMessage `json:"data_privkey"`
	OwnerPrivKey   json.RawMessage `json:"owner_privkey"`
	PaymentPrivKey json.RawMessage `json:"payment_privkey"`
}

// MakeWalletKeys normalizes a wallet key set: single-sig keys are converted
// to canonical hex and multisig bundles are rebuilt from their keys and the
// threshold of their redeem script. The data key must be single-sig.
func MakeWalletKeys(data, owner, payment PrivateKeyInfo,
	params *chaincfg.Params) (*WalletKeys, error) {

	var (
		keys WalletKeys
		err  error
	)

	if data != nil {
		single, ok := data.(SingleSig)
		if !ok || validate(single) != nil {
			return nil, errors.New("Invalid data key info")
		}

		keys.DataPrivKey, err = normalize(single, params)
		if err != nil {
			return nil, err
		}
	}

	if owner != nil {
		keys.OwnerPrivKey, err = normalize(owner, params)
		if err != nil {
			return nil, fmt.Errorf("Invalid owner key info: %w", err)
		}
	}

	if payment != nil {
		keys.PaymentPrivKey, err = normalize(payment, params)
		if err != nil {
			return nil, fmt.Errorf("Invalid payment key info: %w", err)
		}
	}

	return &keys, nil
}

// normalize returns the canonical form of a plaintext bundle.
func normalize(info PrivateKeyInfo,
	params *chaincfg.Params) (PrivateKeyInfo, error) {

	if err := validate(info); err != nil {
		return nil, err
	}

	switch info := info.(type) {
	case SingleSig:
		key, err := keyutil.CanonicalPrivateKey(string(info), params)
		if err != nil {
			return nil, err
		}

		return SingleSig(key), nil

	case *Multisig:
		m, _, err := keyutil.ParseMultisigRedeemScript(
			info.RedeemScript, params,
		)
		if err != nil {
			return nil, err
		}

		return MakeMultisigInfo(m, info.PrivateKeys, params)

	default:
		return nil, ErrInvalidBundle
	}
}

// ParseWalletKeys decodes a JSON wallet key set. Missing or null entries are
// left nil.
func ParseWalletKeys(raw []byte) (*WalletKeys, error) {
	var encoded walletKeysJSON
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("unable to decode wallet keys: %w", err)
	}

	var (
		keys WalletKeys
		err  error
	)
	keys.DataPrivKey, err = parseOptional(encoded.DataPrivKey)
	if err != nil {
		return nil, fmt.Errorf("data_privkey: %w", err)
	}
	keys.OwnerPrivKey, err = parseOptional(encoded.OwnerPrivKey)
	if err != nil {
		return nil, fmt.Errorf("owner_privkey: %w", err)
	}
	keys.PaymentPrivKey, err = parseOptional(encoded.PaymentPrivKey)
	if err != nil {
		return nil, fmt.Errorf("payment_privkey: %w", err)
	}

	return &keys, nil
}

func parseOptional(raw json.RawMessage) (PrivateKeyInfo, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	return Parse(raw)
}

// MarshalJSON encodes the key set with null for missing entries.
func (w *WalletKeys) MarshalJSON() ([]byte, error) {
	var (
		encoded walletKeysJSON
		err     error
	)
	encoded.DataPrivKey, err = marshalOptional(w.DataPrivKey)
	if err != nil {
		return nil, err
	}
	encoded.OwnerPrivKey, err = marshalOptional(w.OwnerPrivKey)
	if err != nil {
		return nil, err
	}
	encoded.PaymentPrivKey, err = marshalOptional(w.PaymentPrivKey)
	if err != nil {
		return nil, err
	}

	return json.Marshal(encoded)
}

func marshalOptional(info PrivateKeyInfo) (json.RawMessage, error) {
	if info == nil {
		return json.RawMessage("null"), nil
	}

	return Marshal(info)
}

// OwnerPrivateKeyInfo returns the owner bundle.
func (w *WalletKeys) OwnerPrivateKeyInfo() (PrivateKeyInfo, error) {
	if w.OwnerPrivKey == nil {
		return nil, ErrNoOwnerKey
	}

	return w.OwnerPrivKey, nil
}

// PaymentPrivateKeyInfo returns the payment bundle.
func (w *WalletKeys) PaymentPrivateKeyInfo() (PrivateKeyInfo, error) {
	if w.PaymentPrivKey == nil {
		return nil, ErrNoPaymentKey
	}

	return w.PaymentPrivKey, nil
}

// DataPrivateKey returns the wallet's data private key if it is the key the
// user's zone file vouches for. A zone file that publishes a data public key
// must publish the wallet's one. Zone files without a data public key
// predate separate data keys, in which case the wallet's data key is only
// used if it equals the owner key.
func (w *WalletKeys) DataPrivateKey(userZonefile string) (string, error) {
	zonefilePubkey, err := zonefile.DataPubkey(userZonefile)
	if err != nil {
		return "", err
	}

	data, ok := w.DataPrivKey.(SingleSig)
	if !ok {
		log.Errorf("No data private key set")
		return "", ErrNoDataKey
	}

	walletPubkey, err := keyutil.PublicKeyHex(string(data))
	if err != nil {
		return "", err
	}

	if zonefilePubkey.IsSome() {
		pubkey, err := keyutil.DecompressPublicKey(
			zonefilePubkey.UnwrapOr(""),
		)
		if err != nil || pubkey != walletPubkey {
			return "", ErrZonefileKeyMismatch
		}

		return string(data), nil
	}

	var ownerKey string
	switch owner := w.OwnerPrivKey.(type) {
	case SingleSig:
		ownerKey = string(owner)

	case *Multisig:
		if owner != nil && len(owner.PrivateKeys) > 0 {
			ownerKey = owner.PrivateKeys[0]
		}
	}

	ownerPubkey, err := keyutil.PublicKeyHex(ownerKey)
	if err != nil || ownerPubkey != walletPubkey {
		return "", ErrDataKeyMismatch
	}

	return string(data), nil
}
