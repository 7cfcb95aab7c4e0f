package keychain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/namewallet/walletkeys/build"
	"github.com/namewallet/walletkeys/keyutil"
	"golang.org/x/sync/errgroup"
)

// MaxAddressSearch is the largest number of child addresses
// PrivateKeyForAddress will derive while looking for a match.
const MaxAddressSearch = 100000

// ErrSearchTooLarge is returned when an address search would derive more
// than MaxAddressSearch children.
var ErrSearchTooLarge = errors.New("address search count too large")

// Config holds the shared state a Wallet derives keys with.
type Config struct {
	// NetParams selects the address version bytes.
	NetParams *chaincfg.Params

	// Cache memoizes keychains and child keys. Wallets that share a Cache
	// never derive the same child twice.
	Cache *Cache
}

// Keypair is a child address, optionally with its private key.
type Keypair struct {
	// Index is the hardened child index the pair was derived at.
	Index int

	// Address is the pay-to-pubkey-hash address of the child's
	// uncompressed public key.
	Address string

	// PrivateKey is the child's private key if it was requested.
	PrivateKey fn.Option[string]
}

// Wallet derives hardened child keys and addresses from a single master
// private key.
type Wallet struct {
	cfg *Config

	// master is the hex scalar of the master private key and the key of
	// every cache entry belonging to this wallet. The compression flag is
	// left out so all encodings of a key share their entries.
	master string

	// fingerprint identifies the master key in log lines.
	fingerprint string

	keychain      Keychain
	masterAddress string
}

// New constructs a Wallet for the master private key, reusing the keychain
// from the cache when one was built before. The master address is derived
// eagerly.
func New(masterPrivKey string, cfg *Config) (*Wallet, error) {
	wif, err := keyutil.ParsePrivateKey(masterPrivKey, cfg.NetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	w := &Wallet{
		cfg:         cfg,
		master:      hex.EncodeToString(wif.PrivKey.Serialize()),
		fingerprint: keyutil.KeyFingerprint(wif),
	}

	kc, ok := cfg.Cache.fetchKeychain(w.master)
	if ok {
		log.Tracef("Keychain for master=%v is cached", w.fingerprint)
	} else {
		log.Tracef("Building keychain for master=%v", w.fingerprint)

		kc = cfg.Cache.storeKeychain(w.master, fromWIF(wif, cfg.NetParams))
	}
	w.keychain = kc

	w.masterAddress, err = w.addressOf(kc.PrivateKey())
	if err != nil {
		return nil, err
	}

	return w, nil
}

// DeriveChild returns the hardened child private key of masterPrivKey at
// index. It goes through the same cache as Wallet, so repeated calls with
// the same master key only build its keychain once.
func DeriveChild(cfg *Config, masterPrivKey string, index int) (string,
	error) {

	w, err := New(masterPrivKey, cfg)
	if err != nil {
		return "", err
	}

	return w.ChildPrivateKey(index)
}

// MasterPrivateKey returns the canonical hex master private key.
func (w *Wallet) MasterPrivateKey() string {
	return w.keychain.PrivateKey()
}

// MasterAddress returns the address of the master key.
func (w *Wallet) MasterAddress() string {
	return w.masterAddress
}

// ChildPrivateKey returns the hardened child private key at index, deriving
// and caching it on first use.
func (w *Wallet) ChildPrivateKey(index int) (string, error) {
	idx, err := checkIndex(index)
	if err != nil {
		return "", err
	}

	if child, ok := w.cfg.Cache.fetchChild(w.master, idx); ok {
		log.Tracef("Child %d of master=%v is cached", idx,
			w.fingerprint)

		return child, nil
	}

	childKeychain, err := w.keychain.HardenedChild(idx)
	if err != nil {
		return "", fmt.Errorf("unable to derive child %d: %w", idx, err)
	}

	log.Debugf("Derived hardened child %d of master=%v", idx,
		w.fingerprint)

	return w.cfg.Cache.storeChild(
		w.master, idx, childKeychain.PrivateKey(),
	), nil
}

// ChildAddress returns the address of the hardened child at index. Only the
// private key is cached, the address is recomputed on each call.
func (w *Wallet) ChildAddress(index int) (string, error) {
	child, err := w.ChildPrivateKey(index)
	if err != nil {
		return "", err
	}

	return w.addressOf(child)
}

// ChildKeypairs returns count consecutive keypairs starting at offset, in
// ascending index order.
func (w *Wallet) ChildKeypairs(count, offset int,
	includePrivKey bool) ([]Keypair, error) {

	if count < 0 {
		return nil, fmt.Errorf("keypair count must not be negative, "+
			"got %d", count)
	}
	if count == 0 {
		return nil, nil
	}

	if _, err := checkIndex(offset); err != nil {
		return nil, err
	}
	if _, err := checkIndex(offset + count - 1); err != nil {
		return nil, err
	}

	// Children are independent, so derive them on all cores. Every
	// goroutine owns one slot of keypairs.
	keypairs := make([]Keypair, count)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range keypairs {
		index := offset + i
		eg.Go(func() error {
			child, err := w.ChildPrivateKey(index)
			if err != nil {
				return err
			}

			address, err := w.addressOf(child)
			if err != nil {
				return err
			}

			keypairs[i] = Keypair{
				Index:      index,
				Address:    address,
				PrivateKey: fn.None[string](),
			}
			if includePrivKey {
				keypairs[i].PrivateKey = fn.Some(child)
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Tracef("Derived %d keypairs at offset %d for master=%v, %v", count,
		offset, w.fingerprint, build.NewLogClosure(func() string {
			keychains, children := w.cfg.Cache.Stats()

			return fmt.Sprintf("cache holds %d keychains and %d "+
				"children", keychains, children)
		}))

	return keypairs, nil
}

// PrivateKeyForAddress scans the first searchCount children for one whose
// address equals target and returns its private key. The scan is linear, so
// callers are expected to keep searchCount small.
func (w *Wallet) PrivateKeyForAddress(target string,
	searchCount int) (fn.Option[string], error) {

	if searchCount > MaxAddressSearch {
		return fn.None[string](), fmt.Errorf("%w: %d > %d",
			ErrSearchTooLarge, searchCount, MaxAddressSearch)
	}

	keypairs, err := w.ChildKeypairs(searchCount, 0, false)
	if err != nil {
		return fn.None[string](), err
	}

	for _, keypair := range keypairs {
		if keypair.Address != target {
			continue
		}

		child, err := w.ChildPrivateKey(keypair.Index)
		if err != nil {
			return fn.None[string](), err
		}

		return fn.Some(child), nil
	}

	log.Debugf("Address %v not found among the first %d children of "+
		"master=%v", target, searchCount, w.fingerprint)

	return fn.None[string](), nil
}

// addressOf returns the address of the uncompressed public key of privKey.
func (w *Wallet) addressOf(privKey string) (string, error) {
	pubKey, err := keyutil.PublicKeyHex(privKey)
	if err != nil {
		return "", err
	}

	return keyutil.PublicKeyToAddress(pubKey, w.cfg.NetParams)
}
