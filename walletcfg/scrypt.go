package walletcfg

import (
	"fmt"

	"github.com/namewallet/walletkeys/keycrypt"
)

// Scrypt holds the key stretching costs of the snacl cipher.
//
//nolint:lll
type Scrypt struct {
	N int `long:"n" description:"CPU and memory cost, must be a power of two greater than one."`
	R int `long:"r" description:"Block size."`
	P int `long:"p" description:"Parallelization."`
}

// DefaultScrypt returns the default scrypt costs.
func DefaultScrypt() *Scrypt {
	return &Scrypt{
		N: keycrypt.DefaultScryptOptions.N,
		R: keycrypt.DefaultScryptOptions.R,
		P: keycrypt.DefaultScryptOptions.P,
	}
}

// Validate checks that the costs are usable by scrypt.
func (s *Scrypt) Validate() error {
	if s.N <= 1 || s.N&(s.N-1) != 0 {
		return fmt.Errorf("scrypt N must be a power of two greater "+
			"than one, got %d", s.N)
	}

	if s.R < 1 || s.P < 1 {
		return fmt.Errorf("scrypt r and p must be positive, got r=%d "+
			"p=%d", s.R, s.P)
	}

	return nil
}

// Options converts the config into the cipher's options.
func (s *Scrypt) Options() keycrypt.ScryptOptions {
	return keycrypt.ScryptOptions{
		N: s.N,
		R: s.R,
		P: s.P,
	}
}
