package privkey

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON field names of the multisig bundle shapes.
const (
	fieldAddress               = "address"
	fieldPrivateKeys           = "private_keys"
	fieldRedeemScript          = "redeem_script"
	fieldEncryptedPrivateKeys  = "encrypted_private_keys"
	fieldEncryptedRedeemScript = "encrypted_redeem_script"
)

// Kind enumerates the shapes a private key info value can take.
type Kind uint8

const (
	// KindInvalid is any value that matches none of the bundle shapes.
	KindInvalid Kind = iota

	// KindSingleSig is a single plaintext private key.
	KindSingleSig

	// KindMultisig is a plaintext m-of-n bundle.
	KindMultisig

	// KindEncryptedSingleSig is a single encrypted private key.
	KindEncryptedSingleSig

	// KindEncryptedMultisig is an m-of-n bundle with encrypted keys and
	// redeem script.
	KindEncryptedMultisig
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSingleSig:
		return "singlesig"
	case KindMultisig:
		return "multisig"
	case KindEncryptedSingleSig:
		return "encrypted_singlesig"
	case KindEncryptedMultisig:
		return "encrypted_multisig"
	default:
		return "invalid"
	}
}

// PrivateKeyInfo is one of SingleSig, Multisig, EncryptedSingleSig or
// EncryptedMultisig. Values are obtained from Parse, which classifies raw
// JSON once, or built directly.
type PrivateKeyInfo interface {
	// Kind returns the shape of the value.
	Kind() Kind

	// The set of implementations is closed.
	isPrivateKeyInfo()
}

// SingleSig is a plaintext private key in hex or WIF form.
type SingleSig string

// Kind returns KindSingleSig.
func (SingleSig) Kind() Kind { return KindSingleSig }

func (SingleSig) isPrivateKeyInfo() {}

// EncryptedSingleSig is the base64 ciphertext of a single private key.
type EncryptedSingleSig string

// Kind returns KindEncryptedSingleSig.
func (EncryptedSingleSig) Kind() Kind { return KindEncryptedSingleSig }

func (EncryptedSingleSig) isPrivateKeyInfo() {}

// Multisig is a plaintext m-of-n key bundle.
type Multisig struct {
	// Address is the optional p2sh address of the redeem script.
	Address string

	// PrivateKeys are the member private keys, in redeem script order.
	PrivateKeys []string

	// RedeemScript is the hex multisig redeem script.
	RedeemScript string

	// Extra holds every other field of the bundle, untouched.
	Extra map[string]json.RawMessage
}

// Kind returns KindMultisig.
func (*Multisig) Kind() Kind { return KindMultisig }

func (*Multisig) isPrivateKeyInfo() {}

// MarshalJSON encodes the bundle as a flat JSON object.
func (m *Multisig) MarshalJSON() ([]byte, error) {
	fields := copyExtra(m.Extra)
	if err := setField(fields, fieldPrivateKeys, m.PrivateKeys); err != nil {
		return nil, err
	}
	if err := setField(fields, fieldRedeemScript, m.RedeemScript); err != nil {
		return nil, err
	}
	if m.Address != "" {
		err := setField(fields, fieldAddress, m.Address)
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

// EncryptedMultisig is a multisig bundle whose private keys and redeem
// script have been encrypted.
type EncryptedMultisig struct {
	// Address is the optional p2sh address of the redeem script. It is
	// never encrypted.
	Address string

	// EncryptedPrivateKeys are the base64 ciphertexts of the member keys.
	EncryptedPrivateKeys []string

	// EncryptedRedeemScript is the base64 ciphertext of the redeem script.
	EncryptedRedeemScript string

	// Extra holds every other field of the bundle, untouched.
	Extra map[string]json.RawMessage
}

// Kind returns KindEncryptedMultisig.
func (*EncryptedMultisig) Kind() Kind { return KindEncryptedMultisig }

func (*EncryptedMultisig) isPrivateKeyInfo() {}

// MarshalJSON encodes the bundle as a flat JSON object.
func (m *EncryptedMultisig) MarshalJSON() ([]byte, error) {
	fields := copyExtra(m.Extra)
	err := setField(fields, fieldEncryptedPrivateKeys, m.EncryptedPrivateKeys)
	if err != nil {
		return nil, err
	}
	err = setField(fields, fieldEncryptedRedeemScript, m.EncryptedRedeemScript)
	if err != nil {
		return nil, err
	}
	if m.Address != "" {
		err := setField(fields, fieldAddress, m.Address)
		if err != nil {
			return nil, err
		}
	}

	return json.Marshal(fields)
}

// Parse classifies a raw JSON value and returns it as the matching
// PrivateKeyInfo variant. ErrInvalidBundle is returned if the value matches
// none of the shapes.
func Parse(raw []byte) (PrivateKeyInfo, error) {
	switch Classify(raw) {
	case KindSingleSig:
		s, _ := decodeString(raw)
		return SingleSig(s), nil

	case KindEncryptedSingleSig:
		s, _ := decodeString(raw)
		return EncryptedSingleSig(s), nil

	case KindMultisig:
		fields, _ := decodeObject(raw)
		return multisigFromFields(fields), nil

	case KindEncryptedMultisig:
		fields, _ := decodeObject(raw)
		return encryptedMultisigFromFields(fields), nil

	default:
		return nil, ErrInvalidBundle
	}
}

// Marshal encodes a PrivateKeyInfo back into its JSON shape.
func Marshal(info PrivateKeyInfo) ([]byte, error) {
	if info == nil {
		return nil, ErrInvalidBundle
	}

	return json.Marshal(info)
}

func multisigFromFields(fields map[string]json.RawMessage) *Multisig {
	m := &Multisig{Extra: make(map[string]json.RawMessage)}
	for name, value := range fields {
		switch name {
		case fieldPrivateKeys:
			m.PrivateKeys, _ = decodeStrings(value)
		case fieldRedeemScript:
			m.RedeemScript, _ = decodeString(value)
		case fieldAddress:
			m.Address, _ = decodeString(value)
		default:
			m.Extra[name] = value
		}
	}

	return m
}

func encryptedMultisigFromFields(
	fields map[string]json.RawMessage) *EncryptedMultisig {

	m := &EncryptedMultisig{Extra: make(map[string]json.RawMessage)}
	for name, value := range fields {
		switch name {
		case fieldEncryptedPrivateKeys:
			m.EncryptedPrivateKeys, _ = decodeStrings(value)
		case fieldEncryptedRedeemScript:
			m.EncryptedRedeemScript, _ = decodeString(value)
		case fieldAddress:
			m.Address, _ = decodeString(value)
		default:
			m.Extra[name] = value
		}
	}

	return m
}

func decodeString(raw []byte) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

func decodeStrings(raw []byte) ([]string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	strs := make([]string, 0, len(elems))
	for _, elem := range elems {
		s, ok := decodeString(elem)
		if !ok {
			return nil, false
		}
		strs = append(strs, s)
	}

	return strs, true
}

func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}

	return fields, true
}

func copyExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage, len(extra)+3)
	for name, value := range extra {
		fields[name] = value
	}

	return fields
}

func setField(fields map[string]json.RawMessage, name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", name, err)
	}
	fields[name] = encoded

	return nil
}
