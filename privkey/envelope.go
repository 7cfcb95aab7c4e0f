package privkey

import (
	"encoding/json"
)

// EncryptedInfo is an encrypted bundle together with the address of its
// plaintext, so callers can learn the address without decrypting.
type EncryptedInfo struct {
	Address        string         `json:"address"`
	PrivateKeyInfo PrivateKeyInfo `json:"private_key_info"`
}

// EncryptResponse is the JSON envelope returned by EncryptPrivateKeyInfo.
// Either Error is set, or Status is true and EncryptedPrivateKeyInfo holds
// the result.
type EncryptResponse struct {
	Status                  bool           `json:"status,omitempty"`
	EncryptedPrivateKeyInfo *EncryptedInfo `json:"encrypted_private_key_info,omitempty"`
	Error                   string         `json:"error,omitempty"`
}

// DecryptResponse is the JSON envelope returned by DecryptPrivateKeyInfo.
// Either Error is set, or Address and PrivateKeyInfo hold the result.
type DecryptResponse struct {
	Address        string         `json:"address,omitempty"`
	PrivateKeyInfo PrivateKeyInfo `json:"private_key_info,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// EncryptPrivateKeyInfo classifies raw, encrypts it under password and
// returns the encrypted bundle with its address. Every failure is reported
// in the envelope's error field.
func (c *Codec) EncryptPrivateKeyInfo(raw json.RawMessage,
	password string) EncryptResponse {

	info, err := Parse(raw)
	if err != nil {
		return EncryptResponse{Error: ErrInvalidBundle.Error()}
	}

	address, err := c.Address(info)
	if err != nil {
		return EncryptResponse{Error: err.Error()}
	}

	encrypted, err := c.Encrypt(info, password).Unpack()
	if err != nil {
		log.Errorf("Unable to encrypt %v bundle for %v: %v",
			info.Kind(), address, err)

		return EncryptResponse{Error: err.Error()}
	}

	log.Debugf("Encrypted %v bundle for %v", info.Kind(), address)

	return EncryptResponse{
		Status: true,
		EncryptedPrivateKeyInfo: &EncryptedInfo{
			Address:        address,
			PrivateKeyInfo: encrypted,
		},
	}
}

// DecryptPrivateKeyInfo classifies raw, decrypts it under password and
// returns the plaintext bundle with its address. Every failure is reported
// in the envelope's error field.
func (c *Codec) DecryptPrivateKeyInfo(raw json.RawMessage,
	password string) DecryptResponse {

	info, err := Parse(raw)
	if err != nil {
		return DecryptResponse{Error: ErrInvalidEncryptedBundle.Error()}
	}

	decrypted, err := c.Decrypt(info, password).Unpack()
	if err != nil {
		return DecryptResponse{Error: err.Error()}
	}

	address, err := c.Address(decrypted)
	if err != nil {
		return DecryptResponse{Error: err.Error()}
	}

	log.Debugf("Decrypted %v bundle for %v", info.Kind(), address)

	return DecryptResponse{
		Address:        address,
		PrivateKeyInfo: decrypted,
	}
}
