package walletkeys

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/namewallet/walletkeys/keychain"
	"github.com/namewallet/walletkeys/keycrypt"
	"github.com/namewallet/walletkeys/privkey"
	"github.com/namewallet/walletkeys/walletcfg"
)

// KeyRing ties the derivation engine and the bundle codec to one
// configuration. All wallets opened through the same KeyRing share one
// derivation cache.
type KeyRing struct {
	cfg *walletcfg.Config

	params *chaincfg.Params
	cache  *keychain.Cache
	codec  *privkey.Codec
}

// NewKeyRing validates cfg and builds a KeyRing with an empty cache.
func NewKeyRing(cfg *walletcfg.Config) (*KeyRing, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cipher, err := keycrypt.New(cfg.Cipher, cfg.Scrypt.Options())
	if err != nil {
		return nil, err
	}

	params := cfg.NetParams()

	log.Infof("Key ring ready: network=%v, cipher=%v, "+
		"address_search_count=%d", params.Name, cipher.Name(),
		cfg.AddressSearchCount)

	return &KeyRing{
		cfg:    cfg,
		params: params,
		cache:  keychain.NewCache(),
		codec:  privkey.NewCodec(cipher, params),
	}, nil
}

// keychainConfig returns the derivation config backed by the shared cache.
func (k *KeyRing) keychainConfig() *keychain.Config {
	return &keychain.Config{
		NetParams: k.params,
		Cache:     k.cache,
	}
}

// NetParams returns the network the key ring derives addresses for.
func (k *KeyRing) NetParams() *chaincfg.Params {
	return k.params
}

// Cache returns the derivation cache shared by the key ring's wallets.
func (k *KeyRing) Cache() *keychain.Cache {
	return k.cache
}

// Codec returns the bundle codec of the key ring.
func (k *KeyRing) Codec() *privkey.Codec {
	return k.codec
}

// Wallet opens the HD wallet of a master private key.
func (k *KeyRing) Wallet(masterPrivKey string) (*keychain.Wallet, error) {
	return keychain.New(masterPrivKey, k.keychainConfig())
}

// DeriveChild returns the hardened child private key of masterPrivKey at
// index.
func (k *KeyRing) DeriveChild(masterPrivKey string, index int) (string,
	error) {

	return keychain.DeriveChild(k.keychainConfig(), masterPrivKey, index)
}

// PrivateKeyForAddress looks for address among the configured number of
// children of masterPrivKey.
func (k *KeyRing) PrivateKeyForAddress(masterPrivKey,
	address string) (fn.Option[string], error) {

	wallet, err := k.Wallet(masterPrivKey)
	if err != nil {
		return fn.None[string](), err
	}

	return wallet.PrivateKeyForAddress(address, k.cfg.AddressSearchCount)
}

// EncryptPrivateKeyInfo encrypts a JSON key bundle under password.
func (k *KeyRing) EncryptPrivateKeyInfo(raw json.RawMessage,
	password string) privkey.EncryptResponse {

	return k.codec.EncryptPrivateKeyInfo(raw, password)
}

// DecryptPrivateKeyInfo decrypts a JSON key bundle under password.
func (k *KeyRing) DecryptPrivateKeyInfo(raw json.RawMessage,
	password string) privkey.DecryptResponse {

	return k.codec.DecryptPrivateKeyInfo(raw, password)
}

// PrivateKeyInfoParams returns the signing policy of a bundle.
func (k *KeyRing) PrivateKeyInfoParams(
	info privkey.PrivateKeyInfo) fn.Option[privkey.KeyParams] {

	return privkey.PrivateKeyInfoParams(info, k.params)
}

// MakeWalletKeys normalizes a wallet key set for the key ring's network.
func (k *KeyRing) MakeWalletKeys(data, owner,
	payment privkey.PrivateKeyInfo) (*privkey.WalletKeys, error) {

	return privkey.MakeWalletKeys(data, owner, payment, k.params)
}
