package privkey

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/namewallet/walletkeys/keycrypt"
	"github.com/namewallet/walletkeys/keyutil"
)

// Codec moves key bundles between their plaintext and encrypted forms.
// Passwords are hex encoded before they reach the cipher, which keeps
// bundles readable by every wallet that used the same scheme.
type Codec struct {
	cipher keycrypt.Cipher
	params *chaincfg.Params
}

// NewCodec returns a Codec that encrypts with cipher and derives addresses
// for the given network.
func NewCodec(cipher keycrypt.Cipher, params *chaincfg.Params) *Codec {
	return &Codec{
		cipher: cipher,
		params: params,
	}
}

// Cipher returns the cipher the codec encrypts with.
func (c *Codec) Cipher() keycrypt.Cipher {
	return c.cipher
}

// Encrypt encrypts a single-sig or multisig bundle. Any other input fails
// with ErrInvalidBundle and nothing is encrypted.
func (c *Codec) Encrypt(info PrivateKeyInfo,
	password string) fn.Result[PrivateKeyInfo] {

	if err := validate(info); err != nil {
		return fn.Err[PrivateKeyInfo](err)
	}

	switch info := info.(type) {
	case SingleSig:
		hexPassword := keycrypt.HexPassword(password)
		ciphertext, err := c.cipher.Encrypt([]byte(info), hexPassword)
		if err != nil {
			return fn.Err[PrivateKeyInfo](err)
		}

		return fn.Ok[PrivateKeyInfo](EncryptedSingleSig(ciphertext))

	case *Multisig:
		return fn.AndThen(
			c.EncryptMultisig(info, password),
			func(m *EncryptedMultisig) fn.Result[PrivateKeyInfo] {
				return fn.Ok[PrivateKeyInfo](m)
			},
		)

	default:
		return fn.Err[PrivateKeyInfo](ErrInvalidBundle)
	}
}

// EncryptMultisig encrypts every private key and the redeem script of a
// multisig bundle independently. All other fields are copied over.
func (c *Codec) EncryptMultisig(m *Multisig,
	password string) fn.Result[*EncryptedMultisig] {

	if err := validate(m); err != nil {
		return fn.Err[*EncryptedMultisig](err)
	}

	hexPassword := keycrypt.HexPassword(password)

	encKeys := make([]string, 0, len(m.PrivateKeys))
	for _, privKey := range m.PrivateKeys {
		encKey, err := c.cipher.Encrypt([]byte(privKey), hexPassword)
		if err != nil {
			return fn.Err[*EncryptedMultisig](err)
		}
		encKeys = append(encKeys, encKey)
	}

	encScript, err := c.cipher.Encrypt([]byte(m.RedeemScript), hexPassword)
	if err != nil {
		return fn.Err[*EncryptedMultisig](err)
	}

	return fn.Ok(&EncryptedMultisig{
		Address:               m.Address,
		EncryptedPrivateKeys:  encKeys,
		EncryptedRedeemScript: encScript,
		Extra:                 copyExtra(m.Extra),
	})
}

// Decrypt reverses Encrypt. A wrong password is reported as a
// DecryptionError, never as a bundle that merely looks valid.
func (c *Codec) Decrypt(info PrivateKeyInfo,
	password string) fn.Result[PrivateKeyInfo] {

	switch info := info.(type) {
	case EncryptedSingleSig:
		privKey, err := c.decryptPrivateKey(string(info), password)
		if err != nil {
			return fn.Err[PrivateKeyInfo](&DecryptionError{Err: err})
		}

		return fn.Ok[PrivateKeyInfo](SingleSig(privKey))

	case *EncryptedMultisig:
		m, err := c.DecryptMultisig(info, password).Unpack()
		switch {
		case IsPasswordError(err):
			return fn.Err[PrivateKeyInfo](
				&MultisigDecryptError{Err: err},
			)

		case err != nil:
			return fn.Err[PrivateKeyInfo](err)
		}

		return fn.Ok[PrivateKeyInfo](m)

	default:
		return fn.Err[PrivateKeyInfo](ErrInvalidEncryptedBundle)
	}
}

// DecryptMultisig decrypts every private key and the redeem script of an
// encrypted multisig bundle. The first failure aborts the whole bundle.
func (c *Codec) DecryptMultisig(m *EncryptedMultisig,
	password string) fn.Result[*Multisig] {

	if err := validate(m); err != nil {
		return fn.Err[*Multisig](ErrInvalidEncryptedBundle)
	}

	privKeys := make([]string, 0, len(m.EncryptedPrivateKeys))
	for i, encKey := range m.EncryptedPrivateKeys {
		privKey, err := c.decryptPrivateKey(encKey, password)
		if err != nil {
			log.Debugf("Unable to decrypt multisig member key %d: %v",
				i, err)

			return fn.Err[*Multisig](&DecryptionError{
				Field: FieldPrivateKey,
				Err:   err,
			})
		}
		privKeys = append(privKeys, privKey)
	}

	script, err := c.cipher.Decrypt(
		m.EncryptedRedeemScript, keycrypt.HexPassword(password),
	)
	if err == nil && len(script) > 0 && !keyutil.IsHex(string(script)) {
		err = keyutil.ErrInvalidRedeemScript
	}
	if err != nil {
		log.Debugf("Unable to decrypt multisig redeem script: %v", err)

		return fn.Err[*Multisig](&DecryptionError{
			Field: FieldRedeemScript,
			Err:   err,
		})
	}

	switch {
	case len(script) == 0:
		return fn.Err[*Multisig](&MissingFieldError{
			Field: fieldRedeemScript,
		})

	case len(privKeys) == 0:
		return fn.Err[*Multisig](&MissingFieldError{
			Field: fieldPrivateKeys,
		})
	}

	return fn.Ok(&Multisig{
		Address:      m.Address,
		PrivateKeys:  privKeys,
		RedeemScript: string(script),
		Extra:        copyExtra(m.Extra),
	})
}

// decryptPrivateKey opens one encrypted key and checks that the plaintext is
// a valid private key.
func (c *Codec) decryptPrivateKey(ciphertext, password string) (string,
	error) {

	plaintext, err := c.cipher.Decrypt(
		ciphertext, keycrypt.HexPassword(password),
	)
	if err != nil {
		return "", err
	}

	privKey := string(plaintext)
	if _, err := keyutil.ParsePrivateKey(privKey, c.params); err != nil {
		return "", err
	}

	return privKey, nil
}

// Address returns the address of a plaintext bundle: pay-to-pubkey-hash for
// single-sig and pay-to-script-hash for multisig.
func (c *Codec) Address(info PrivateKeyInfo) (string, error) {
	return Address(info, c.params)
}
