package privkey

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/namewallet/walletkeys/keyutil"
)

// Classify returns the shape of a raw JSON value. The checks run in a fixed
// order and the shapes are disjoint, so a value never matches more than one
// kind:
//
//   - a string that parses as a private key is single-sig.
//   - any other non-empty base64 string is encrypted single-sig.
//   - an object with private_keys and redeem_script, and no encrypted
//     fields, is multisig.
//   - an object with encrypted_private_keys and encrypted_redeem_script, and
//     no plaintext fields, is encrypted multisig.
func Classify(raw []byte) Kind {
	switch {
	case IsSingleSig(raw):
		return KindSingleSig

	case IsEncryptedSingleSig(raw):
		return KindEncryptedSingleSig

	case IsMultisig(raw):
		return KindMultisig

	case IsEncryptedMultisig(raw):
		return KindEncryptedMultisig

	default:
		return KindInvalid
	}
}

// IsSingleSig returns true if raw is a JSON string holding a private key in
// hex or WIF form.
func IsSingleSig(raw []byte) bool {
	s, ok := decodeString(raw)

	return ok && isPrivateKey(s)
}

// IsSingleSigHex returns true if raw is a JSON string holding a private key
// in hex form.
func IsSingleSigHex(raw []byte) bool {
	s, ok := decodeString(raw)

	return ok && keyutil.IsHexPrivateKey(s)
}

// IsEncryptedSingleSig returns true if raw is a JSON string holding a base64
// ciphertext. Strings that are also valid private keys are excluded, since
// hex and some WIF keys happen to be valid base64 too.
func IsEncryptedSingleSig(raw []byte) bool {
	s, ok := decodeString(raw)

	return ok && isCiphertext(s) && !isPrivateKey(s)
}

// IsMultisig returns true if raw is a plaintext multisig bundle.
func IsMultisig(raw []byte) bool {
	fields, ok := decodeObject(raw)
	if !ok || hasAny(fields, fieldEncryptedPrivateKeys,
		fieldEncryptedRedeemScript) {

		return false
	}

	keys, ok := decodeStrings(fields[fieldPrivateKeys])
	if !ok || len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !isPrivateKey(key) {
			return false
		}
	}

	script, ok := decodeString(fields[fieldRedeemScript])
	if !ok || !keyutil.IsHex(script) {
		return false
	}

	return optionalString(fields, fieldAddress)
}

// IsEncryptedMultisig returns true if raw is an encrypted multisig bundle.
func IsEncryptedMultisig(raw []byte) bool {
	fields, ok := decodeObject(raw)
	if !ok || hasAny(fields, fieldPrivateKeys, fieldRedeemScript) {
		return false
	}

	keys, ok := decodeStrings(fields[fieldEncryptedPrivateKeys])
	if !ok || len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !isCiphertext(key) {
			return false
		}
	}

	script, ok := decodeString(fields[fieldEncryptedRedeemScript])
	if !ok || !isCiphertext(script) {
		return false
	}

	return optionalString(fields, fieldAddress)
}

// PrivateKeyToString returns the canonical hex form of a plaintext bundle:
// the key itself for single-sig, and the comma joined member keys for
// multisig. Encrypted and invalid values have no canonical form.
func PrivateKeyToString(info PrivateKeyInfo) fn.Option[string] {
	switch info := info.(type) {
	case SingleSig:
		key, err := keyutil.CanonicalPrivateKey(
			string(info), &chaincfg.MainNetParams,
		)
		if err != nil {
			return fn.None[string]()
		}

		return fn.Some(key)

	case *Multisig:
		if info == nil || len(info.PrivateKeys) == 0 {
			return fn.None[string]()
		}

		keys := make([]string, 0, len(info.PrivateKeys))
		for _, privKey := range info.PrivateKeys {
			key, err := keyutil.CanonicalPrivateKey(
				privKey, &chaincfg.MainNetParams,
			)
			if err != nil {
				return fn.None[string]()
			}
			keys = append(keys, key)
		}

		return fn.Some(strings.Join(keys, ","))

	default:
		return fn.None[string]()
	}
}

// validate re-runs the classifier on a value that may have been built
// without going through Parse.
func validate(info PrivateKeyInfo) error {
	if info == nil {
		return ErrInvalidBundle
	}

	raw, err := json.Marshal(info)
	if err != nil || Classify(raw) != info.Kind() {
		return ErrInvalidBundle
	}

	return nil
}

// isPrivateKey reports whether s decodes as a private key. The network only
// selects WIF version bytes on output, so any network will do here.
func isPrivateKey(s string) bool {
	_, err := keyutil.ParsePrivateKey(s, &chaincfg.MainNetParams)

	return err == nil
}

// isCiphertext reports whether s has the shape of a base64 ciphertext. Hex
// keys are valid base64 too, so key-length hex strings never count: one that
// failed to parse is a bad key, not an encrypted one.
func isCiphertext(s string) bool {
	if s == "" || isHexKeyShape(s) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)

	return err == nil
}

func isHexKeyShape(s string) bool {
	if len(s) != keyutil.PrivKeyHexLen &&
		len(s) != keyutil.PrivKeyHexLen+2 {

		return false
	}

	return keyutil.IsHex(s)
}

func hasAny(fields map[string]json.RawMessage, names ...string) bool {
	for _, name := range names {
		if _, ok := fields[name]; ok {
			return true
		}
	}

	return false
}

func optionalString(fields map[string]json.RawMessage, name string) bool {
	value, ok := fields[name]
	if !ok {
		return true
	}
	_, ok = decodeString(value)

	return ok
}
