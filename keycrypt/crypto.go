package keycrypt

import (
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// CipherAES selects the AES-256-CBC scheme used by existing identity
	// wallets.
	CipherAES = "aes"

	// CipherSnacl selects scrypt key stretching with NaCl secretbox
	// authenticated encryption.
	CipherSnacl = "snacl"
)

var (
	// ErrDecryptFailed is returned when a ciphertext cannot be opened with
	// the given key. For the AES scheme this covers bad padding, for the
	// snacl scheme it covers both a wrong password and a failed
	// authentication tag.
	ErrDecryptFailed = errors.New("unable to decrypt ciphertext")

	// ErrMalformedCiphertext is returned when a ciphertext blob cannot be
	// decoded at all.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrInvalidKey is returned when the hex key handed to a cipher is not
	// valid hex.
	ErrInvalidKey = errors.New("cipher key must be hex encoded")
)

// Cipher is the symmetric encryption scheme used to protect key bundle
// fields. Keys are passed hex encoded and ciphertexts are returned as base64
// strings so they can sit next to plaintext fields in a JSON document.
type Cipher interface {
	// Encrypt encrypts plaintext under the secret encoded in hexKey.
	Encrypt(plaintext []byte, hexKey string) (string, error)

	// Decrypt reverses Encrypt. Every failure is reported as an error
	// wrapping ErrDecryptFailed or ErrMalformedCiphertext.
	Decrypt(ciphertext string, hexKey string) ([]byte, error)

	// Name returns the identifier the cipher is selected by.
	Name() string
}

// HexPassword hex encodes a user password before it is used as a cipher key.
// Bundles written by earlier wallets were encrypted this way, so the step
// must not be dropped.
func HexPassword(password string) string {
	return hex.EncodeToString([]byte(password))
}

// New returns the cipher registered under name.
func New(name string, scrypt ScryptOptions) (Cipher, error) {
	switch name {
	case CipherAES:
		log.Debugf("Using %v cipher", name)
		return NewAESCipher(), nil

	case CipherSnacl:
		log.Debugf("Using %v cipher with scrypt N=%d r=%d p=%d", name,
			scrypt.N, scrypt.R, scrypt.P)
		return NewSnaclCipher(scrypt), nil

	default:
		return nil, fmt.Errorf("unknown cipher %q, must be %q or %q",
			name, CipherAES, CipherSnacl)
	}
}

// decodeKey turns the hex key back into the raw secret bytes.
func decodeKey(hexKey string) ([]byte, error) {
	secret, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return secret, nil
}

// zero clears a byte slice holding secret material.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
