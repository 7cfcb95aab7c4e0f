package keycrypt

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcwallet/snacl"
)

// ScryptOptions is used to hold the scrypt parameters needed when deriving new
// passphrase keys.
type ScryptOptions struct {
	N, R, P int
}

// DefaultScryptOptions is the default options used with scrypt.
var DefaultScryptOptions = ScryptOptions{
	N: 262144, // 2^18
	R: 8,
	P: 1,
}

// SnaclCipher implements Cipher with a fresh snacl secret key per
// ciphertext. The marshalled key parameters (salt, digest and scrypt costs)
// are stored in front of the sealed box, length prefixed, so a ciphertext
// can be opened without any outside state.
type SnaclCipher struct {
	opts ScryptOptions
}

// A compile-time check to ensure SnaclCipher implements Cipher.
var _ Cipher = (*SnaclCipher)(nil)

// NewSnaclCipher returns a SnaclCipher that stretches passwords with the
// given scrypt costs.
func NewSnaclCipher(opts ScryptOptions) *SnaclCipher {
	return &SnaclCipher{opts: opts}
}

// Name returns the identifier of the cipher.
func (c *SnaclCipher) Name() string {
	return CipherSnacl
}

// Encrypt encrypts plaintext under hexKey.
func (c *SnaclCipher) Encrypt(plaintext []byte, hexKey string) (string,
	error) {

	secret, err := decodeKey(hexKey)
	if err != nil {
		return "", err
	}
	defer zero(secret)

	secretKey, err := snacl.NewSecretKey(
		&secret, c.opts.N, c.opts.R, c.opts.P,
	)
	if err != nil {
		return "", fmt.Errorf("unable to derive secret key: %w", err)
	}
	defer secretKey.Zero()

	sealed, err := secretKey.Encrypt(plaintext)
	if err != nil {
		return "", err
	}

	params := secretKey.Marshal()
	out := make([]byte, 2, 2+len(params)+len(sealed))
	binary.BigEndian.PutUint16(out, uint16(len(params)))
	out = append(out, params...)
	out = append(out, sealed...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt decrypts a ciphertext produced by Encrypt.
func (c *SnaclCipher) Decrypt(ciphertext string, hexKey string) ([]byte,
	error) {

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: missing key parameters",
			ErrMalformedCiphertext)
	}

	paramsLen := int(binary.BigEndian.Uint16(raw[:2]))
	if len(raw) < 2+paramsLen {
		return nil, fmt.Errorf("%w: truncated key parameters",
			ErrMalformedCiphertext)
	}
	params, sealed := raw[2:2+paramsLen], raw[2+paramsLen:]

	var secretKey snacl.SecretKey
	if err := secretKey.Unmarshal(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	defer secretKey.Zero()

	if err := c.checkParameters(&secretKey.Parameters); err != nil {
		return nil, err
	}

	secret, err := decodeKey(hexKey)
	if err != nil {
		return nil, err
	}
	defer zero(secret)

	err = secretKey.DeriveKey(&secret)
	switch {
	case errors.Is(err, snacl.ErrInvalidPassword):
		return nil, fmt.Errorf("%w: wrong password", ErrDecryptFailed)

	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	plaintext, err := secretKey.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return plaintext, nil
}

// checkParameters rejects scrypt costs read from a ciphertext that exceed both
// the configured and the default costs. They come from untrusted input and
// would otherwise let a crafted blob exhaust memory.
func (c *SnaclCipher) checkParameters(params *snacl.Parameters) error {
	maxN := max(c.opts.N, DefaultScryptOptions.N)
	maxR := max(c.opts.R, DefaultScryptOptions.R)
	maxP := max(c.opts.P, DefaultScryptOptions.P)

	n, r, p := params.N, params.R, params.P
	if n <= 1 || n&(n-1) != 0 || n > maxN || r < 1 || r > maxR ||
		p < 1 || p > maxP {

		return fmt.Errorf("%w: scrypt parameters N=%d r=%d p=%d out "+
			"of range", ErrMalformedCiphertext, n, r, p)
	}

	return nil
}
