package privkey

import (
	"errors"
	"fmt"
)

// The messages below are part of the JSON envelope contract and are matched
// by existing clients, so they keep their original capitalization.
var (
	// ErrInvalidBundle is returned when a value is neither a single-sig
	// nor a multisig bundle.
	ErrInvalidBundle = errors.New("Invalid private key info")

	// ErrInvalidEncryptedBundle is returned when a value handed to
	// decryption is neither an encrypted single-sig nor an encrypted
	// multisig bundle.
	ErrInvalidEncryptedBundle = errors.New(
		"Invalid encrypted private key info",
	)

	// ErrNoKeyInfo is returned when an address is requested for a missing
	// bundle.
	ErrNoKeyInfo = errors.New("no private key info given")
)

const (
	// FieldPrivateKey names a multisig member key in a DecryptionError.
	FieldPrivateKey = "private key"

	// FieldRedeemScript names the redeem script in a DecryptionError.
	FieldRedeemScript = "redeem script"
)

// DecryptionError is returned when a ciphertext cannot be opened, or opens to
// something that is not a valid key or script. Both cases are reported as a
// wrong password.
type DecryptionError struct {
	// Field is empty for single-sig bundles, otherwise FieldPrivateKey or
	// FieldRedeemScript.
	Field string

	// Err is the underlying cipher or validation error.
	Err error
}

// Error implements the error interface.
func (e *DecryptionError) Error() string {
	if e.Field == "" {
		return "Invalid password"
	}

	return fmt.Sprintf("Invalid password; failed to decrypt %s in "+
		"multisig wallet", e.Field)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a multisig bundle decrypts cleanly but
// lacks one of its required fields.
type MissingFieldError struct {
	// Field is the JSON name of the missing field.
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Invalid multisig wallet: missing %s", e.Field)
}

// MultisigDecryptError wraps a failure to decrypt a multisig bundle.
type MultisigDecryptError struct {
	Err error
}

// Error implements the error interface.
func (e *MultisigDecryptError) Error() string {
	return fmt.Sprintf("Failed to decrypt multisig wallet: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *MultisigDecryptError) Unwrap() error {
	return e.Err
}

// IsPasswordError returns true if err was caused by a wrong password or a
// corrupted ciphertext.
func IsPasswordError(err error) bool {
	var decErr *DecryptionError

	return errors.As(err, &decErr)
}
