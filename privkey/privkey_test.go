package privkey

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/namewallet/walletkeys/keycrypt"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	keyOne   = "0000000000000000000000000000000000000000000000000000000000000001"
	keyTwo   = "0000000000000000000000000000000000000000000000000000000000000002"
	keyThree = "0000000000000000000000000000000000000000000000000000000000000003"

	// keyOneWIF is keyOne with the compression flag set.
	keyOneWIF = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"

	// keyOneAddress is the address of the uncompressed public key of
	// keyOne.
	keyOneAddress = "1EHNa6Q4Jz2uvNExL497mE43ikXhwF6kZm"

	// keyOneCompressedAddress is the address of the compressed public key
	// of keyOne.
	keyOneCompressedAddress = "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH"

	// uncompressedGenerator is the uncompressed public key of keyOne.
	uncompressedGenerator = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"

	testPassword = "correct horse battery staple"
)

var (
	testParams = &chaincfg.MainNetParams

	// fastScrypt keeps the snacl tests quick.
	fastScrypt = keycrypt.ScryptOptions{N: 16, R: 8, P: 1}
)

func testCodecs() []*Codec {
	return []*Codec{
		NewCodec(keycrypt.NewAESCipher(), testParams),
		NewCodec(keycrypt.NewSnaclCipher(fastScrypt), testParams),
	}
}

func quote(s string) []byte {
	encoded, _ := json.Marshal(s)
	return encoded
}

func testMultisig(t *testing.T) *Multisig {
	t.Helper()

	m, err := MakeMultisigInfo(
		2, []string{keyOne + "01", keyTwo + "01", keyThree + "01"},
		testParams,
	)
	require.NoError(t, err)

	return m
}

func mustMarshal(t *testing.T, info PrivateKeyInfo) []byte {
	t.Helper()

	raw, err := Marshal(info)
	require.NoError(t, err)

	return raw
}

// TestClassifyExclusive asserts that every sample matches exactly the
// expected shape and no other.
func TestClassifyExclusive(t *testing.T) {
	t.Parallel()

	multisig := mustMarshal(t, testMultisig(t))
	encMultisig := []byte(`{"encrypted_private_keys":["YWJjZA=="],` +
		`"encrypted_redeem_script":"YWJjZA==","label":"x"}`)

	testCases := []struct {
		name string
		raw  []byte
		kind Kind
	}{
		{"uncompressed hex key", quote(keyOne), KindSingleSig},
		{"compressed hex key", quote(keyOne + "01"), KindSingleSig},
		{"wif key", quote(keyOneWIF), KindSingleSig},
		{"base64 ciphertext", quote("c2VjcmV0IGtleQ=="),
			KindEncryptedSingleSig},
		{"multisig", multisig, KindMultisig},
		{"encrypted multisig", encMultisig, KindEncryptedMultisig},
		{"odd length hex", quote("abc"), KindInvalid},
		{"zero key", quote(strings.Repeat("0", 64)), KindInvalid},
		{"compressed zero key", quote(strings.Repeat("0", 64) + "01"),
			KindInvalid},
		{"key above group order", quote(strings.Repeat("f", 64)),
			KindInvalid},
		{"compressed key above group order",
			quote(strings.Repeat("f", 64) + "01"), KindInvalid},
		{"unknown key suffix", quote(keyOne + "02"), KindInvalid},
		{"empty string", quote(""), KindInvalid},
		{"not base64", quote("%%%"), KindInvalid},
		{"number", []byte(`42`), KindInvalid},
		{"null", []byte(`null`), KindInvalid},
		{"malformed json", []byte(`{"private_keys":`), KindInvalid},
		{"empty multisig keys", []byte(`{"private_keys":[],` +
			`"redeem_script":"00"}`), KindInvalid},
		{"multisig bad key", []byte(`{"private_keys":["zz"],` +
			`"redeem_script":"00"}`), KindInvalid},
		{"multisig missing script", []byte(`{"private_keys":["` +
			keyOne + `"]}`), KindInvalid},
		{"multisig non-hex script", []byte(`{"private_keys":["` +
			keyOne + `"],"redeem_script":"xyz"}`), KindInvalid},
		{"mixed plain and encrypted", []byte(`{"private_keys":["` +
			keyOne + `"],"redeem_script":"00",` +
			`"encrypted_private_keys":["YWJjZA=="],` +
			`"encrypted_redeem_script":"YWJjZA=="}`), KindInvalid},
		{"address not a string", []byte(`{"private_keys":["` +
			keyOne + `"],"redeem_script":"00","address":1}`),
			KindInvalid},
	}

	predicates := map[Kind]func([]byte) bool{
		KindSingleSig:          IsSingleSig,
		KindMultisig:           IsMultisig,
		KindEncryptedSingleSig: IsEncryptedSingleSig,
		KindEncryptedMultisig:  IsEncryptedMultisig,
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.kind, Classify(tc.raw))

			for kind, predicate := range predicates {
				require.Equal(
					t, kind == tc.kind, predicate(tc.raw),
					"predicate %v", kind,
				)
			}

			info, err := Parse(tc.raw)
			if tc.kind == KindInvalid {
				require.ErrorIs(t, err, ErrInvalidBundle)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.kind, info.Kind())
		})
	}
}

// TestIsSingleSigHex checks that WIF keys are single-sig but not hex.
func TestIsSingleSigHex(t *testing.T) {
	t.Parallel()

	require.True(t, IsSingleSigHex(quote(keyOne)))
	require.True(t, IsSingleSigHex(quote(keyOne+"01")))
	require.False(t, IsSingleSigHex(quote(keyOneWIF)))
	require.True(t, IsSingleSig(quote(keyOneWIF)))
}

// TestPrivateKeyToString checks the canonical string forms.
func TestPrivateKeyToString(t *testing.T) {
	t.Parallel()

	require.Equal(
		t, keyOne+"01",
		PrivateKeyToString(SingleSig(keyOneWIF)).UnwrapOr(""),
	)

	m := testMultisig(t)
	require.Equal(
		t, strings.Join(m.PrivateKeys, ","),
		PrivateKeyToString(m).UnwrapOr(""),
	)

	require.True(t, PrivateKeyToString(EncryptedSingleSig("YWJj")).IsNone())
	require.True(t, PrivateKeyToString(SingleSig("nope")).IsNone())
	require.True(t, PrivateKeyToString(nil).IsNone())
}

// TestSingleSigRoundTrip checks that single keys survive encryption in every
// supported encoding.
func TestSingleSigRoundTrip(t *testing.T) {
	t.Parallel()

	for _, codec := range testCodecs() {
		for _, key := range []string{keyOne, keyOne + "01", keyOneWIF} {
			encrypted, err := codec.Encrypt(
				SingleSig(key), testPassword,
			).Unpack()
			require.NoError(t, err)
			require.Equal(t, KindEncryptedSingleSig, encrypted.Kind())
			require.True(t, IsEncryptedSingleSig(
				mustMarshal(t, encrypted),
			))

			decrypted, err := codec.Decrypt(
				encrypted, testPassword,
			).Unpack()
			require.NoError(t, err)
			require.Equal(t, SingleSig(key), decrypted)
		}
	}
}

// TestMultisigRoundTripExtraFields asserts that fields other than the keys
// and the redeem script come back unchanged.
func TestMultisigRoundTripExtraFields(t *testing.T) {
	t.Parallel()

	m := testMultisig(t)
	m.Extra = map[string]json.RawMessage{
		"label": json.RawMessage(`"wallet-A"`),
		"meta":  json.RawMessage(`{"created":1500000000}`),
	}

	for _, codec := range testCodecs() {
		encrypted, err := codec.EncryptMultisig(m, testPassword).Unpack()
		require.NoError(t, err)
		require.Len(t, encrypted.EncryptedPrivateKeys, 3)
		require.Equal(t, m.Address, encrypted.Address)
		require.Equal(t, m.Extra, encrypted.Extra)

		// The sensitive fields must not leak into the encrypted form.
		raw := mustMarshal(t, encrypted)
		require.NotContains(t, string(raw), m.RedeemScript)
		require.NotContains(t, string(raw), keyTwo)
		require.Equal(t, KindEncryptedMultisig, Classify(raw))

		parsed, err := Parse(raw)
		require.NoError(t, err)

		decrypted, err := codec.Decrypt(parsed, testPassword).Unpack()
		require.NoError(t, err)

		plain, ok := decrypted.(*Multisig)
		require.True(t, ok)
		require.Equal(t, m.PrivateKeys, plain.PrivateKeys)
		require.Equal(t, m.RedeemScript, plain.RedeemScript)
		require.Equal(t, m.Address, plain.Address)
		require.JSONEq(t, `"wallet-A"`, string(plain.Extra["label"]))
		require.JSONEq(
			t, `{"created":1500000000}`, string(plain.Extra["meta"]),
		)
	}
}

// TestWrongPassword asserts that a wrong password never yields a bundle.
func TestWrongPassword(t *testing.T) {
	t.Parallel()

	for _, codec := range testCodecs() {
		encrypted, err := codec.Encrypt(
			SingleSig(keyOne), testPassword,
		).Unpack()
		require.NoError(t, err)

		_, err = codec.Decrypt(encrypted, "hunter2").Unpack()
		require.True(t, IsPasswordError(err))
		require.EqualError(t, err, "Invalid password")

		encMultisig, err := codec.Encrypt(
			testMultisig(t), testPassword,
		).Unpack()
		require.NoError(t, err)

		_, err = codec.Decrypt(encMultisig, "hunter2").Unpack()
		require.True(t, IsPasswordError(err))
		require.EqualError(t, err, "Failed to decrypt multisig "+
			"wallet: Invalid password; failed to decrypt private "+
			"key in multisig wallet")
	}
}

// TestHexKeyShapeNotEncrypted checks that key-length hex which fails scalar
// validation is reported as an invalid bundle and not handed to a cipher.
func TestHexKeyShapeNotEncrypted(t *testing.T) {
	t.Parallel()

	codec := NewCodec(keycrypt.NewAESCipher(), testParams)

	testCases := []string{
		strings.Repeat("0", 64),
		strings.Repeat("f", 64),
		strings.Repeat("F", 64) + "01",
		keyOne + "ff",
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc, func(t *testing.T) {
			t.Parallel()

			require.False(t, IsEncryptedSingleSig(quote(tc)))

			resp := codec.DecryptPrivateKeyInfo(quote(tc), testPassword)
			require.Equal(
				t, ErrInvalidEncryptedBundle.Error(), resp.Error,
			)

			encResp := codec.EncryptPrivateKeyInfo(
				quote(tc), testPassword,
			)
			require.Equal(t, ErrInvalidBundle.Error(), encResp.Error)
		})
	}
}

// TestDecryptMalformedCiphertext checks that ciphertexts which cannot be
// parsed surface as password errors from the codec and the JSON envelope.
func TestDecryptMalformedCiphertext(t *testing.T) {
	t.Parallel()

	b64 := base64.StdEncoding.EncodeToString
	aesCodec := NewCodec(keycrypt.NewAESCipher(), testParams)
	snaclCodec := NewCodec(keycrypt.NewSnaclCipher(fastScrypt), testParams)

	// hugeScrypt rewrites the scrypt N of a snacl ciphertext. N follows
	// the length prefix, salt and digest, little endian.
	hugeScrypt := func(t *testing.T) string {
		encrypted, err := snaclCodec.Encrypt(
			SingleSig(keyOne), testPassword,
		).Unpack()
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(
			string(encrypted.(EncryptedSingleSig)),
		)
		require.NoError(t, err)
		binary.LittleEndian.PutUint64(raw[2+32+32:], 1<<50)

		return b64(raw)
	}

	testCases := []struct {
		name       string
		codec      *Codec
		ciphertext func(t *testing.T) string

		// envelope is false when the blob does not even classify as
		// an encrypted bundle.
		envelope bool
	}{
		{
			name:  "aes bad base64",
			codec: aesCodec,
			ciphertext: func(*testing.T) string {
				return "%%not base64%%"
			},
		},
		{
			name:  "aes too short",
			codec: aesCodec,
			ciphertext: func(*testing.T) string {
				return b64(make([]byte, 32))
			},
			envelope: true,
		},
		{
			name:  "aes not block aligned",
			codec: aesCodec,
			ciphertext: func(*testing.T) string {
				return b64(make([]byte, 50))
			},
			envelope: true,
		},
		{
			name:  "snacl truncated params",
			codec: snaclCodec,
			ciphertext: func(*testing.T) string {
				return b64([]byte{0x00, 0xc8, 0x01, 0x02, 0x03})
			},
			envelope: true,
		},
		{
			name:       "snacl huge scrypt n",
			codec:      snaclCodec,
			ciphertext: hugeScrypt,
			envelope:   true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ciphertext := tc.ciphertext(t)

			_, err := tc.codec.Decrypt(
				EncryptedSingleSig(ciphertext), testPassword,
			).Unpack()
			require.True(t, IsPasswordError(err))
			require.EqualError(t, err, "Invalid password")

			_, err = tc.codec.Decrypt(&EncryptedMultisig{
				EncryptedPrivateKeys:  []string{ciphertext},
				EncryptedRedeemScript: ciphertext,
			}, testPassword).Unpack()
			require.True(t, IsPasswordError(err))
			require.EqualError(t, err, "Failed to decrypt multisig "+
				"wallet: Invalid password; failed to decrypt "+
				"private key in multisig wallet")

			resp := tc.codec.DecryptPrivateKeyInfo(
				quote(ciphertext), testPassword,
			)
			if !tc.envelope {
				require.Equal(
					t, ErrInvalidEncryptedBundle.Error(),
					resp.Error,
				)
				return
			}
			require.Equal(t, "Invalid password", resp.Error)
			require.Nil(t, resp.PrivateKeyInfo)
		})
	}
}

// TestDecryptGarbagePlaintext covers ciphertexts that open with the right
// password but hold something other than a key or script.
func TestDecryptGarbagePlaintext(t *testing.T) {
	t.Parallel()

	cipher := keycrypt.NewAESCipher()
	codec := NewCodec(cipher, testParams)
	hexPassword := keycrypt.HexPassword(testPassword)

	notAKey, err := cipher.Encrypt([]byte("not a key"), hexPassword)
	require.NoError(t, err)

	_, err = codec.Decrypt(
		EncryptedSingleSig(notAKey), testPassword,
	).Unpack()
	require.EqualError(t, err, "Invalid password")

	encKey, err := cipher.Encrypt([]byte(keyOne), hexPassword)
	require.NoError(t, err)
	notAScript, err := cipher.Encrypt([]byte("not hex"), hexPassword)
	require.NoError(t, err)

	_, err = codec.Decrypt(&EncryptedMultisig{
		EncryptedPrivateKeys:  []string{encKey},
		EncryptedRedeemScript: notAScript,
	}, testPassword).Unpack()
	require.EqualError(t, err, "Failed to decrypt multisig wallet: "+
		"Invalid password; failed to decrypt redeem script in "+
		"multisig wallet")

	emptyScript, err := cipher.Encrypt([]byte{}, hexPassword)
	require.NoError(t, err)

	_, err = codec.Decrypt(&EncryptedMultisig{
		EncryptedPrivateKeys:  []string{encKey},
		EncryptedRedeemScript: emptyScript,
	}, testPassword).Unpack()
	require.EqualError(t, err, "Invalid multisig wallet: missing "+
		"redeem_script")
	require.False(t, IsPasswordError(err))
}

// TestInvalidBundles checks that the codec refuses the wrong shapes.
func TestInvalidBundles(t *testing.T) {
	t.Parallel()

	codec := NewCodec(keycrypt.NewAESCipher(), testParams)

	_, err := codec.Encrypt(SingleSig("zz"), testPassword).Unpack()
	require.ErrorIs(t, err, ErrInvalidBundle)

	_, err = codec.Encrypt(nil, testPassword).Unpack()
	require.ErrorIs(t, err, ErrInvalidBundle)

	_, err = codec.Encrypt(
		EncryptedSingleSig("YWJj"), testPassword,
	).Unpack()
	require.ErrorIs(t, err, ErrInvalidBundle)

	_, err = codec.Decrypt(SingleSig(keyOne), testPassword).Unpack()
	require.ErrorIs(t, err, ErrInvalidEncryptedBundle)
}

// TestEnvelopes checks the JSON envelopes of the top level operations.
func TestEnvelopes(t *testing.T) {
	t.Parallel()

	codec := NewCodec(keycrypt.NewAESCipher(), testParams)

	resp := codec.EncryptPrivateKeyInfo(quote(keyOne), testPassword)
	require.Empty(t, resp.Error)
	require.True(t, resp.Status)
	require.Equal(t, keyOneAddress, resp.EncryptedPrivateKeyInfo.Address)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)

	var generic struct {
		Status bool `json:"status"`
		Info   struct {
			Address string          `json:"address"`
			Info    json.RawMessage `json:"private_key_info"`
		} `json:"encrypted_private_key_info"`
	}
	require.NoError(t, json.Unmarshal(encoded, &generic))
	require.True(t, generic.Status)
	require.Equal(t, KindEncryptedSingleSig, Classify(generic.Info.Info))

	decResp := codec.DecryptPrivateKeyInfo(generic.Info.Info, testPassword)
	require.Empty(t, decResp.Error)
	require.Equal(t, keyOneAddress, decResp.Address)
	require.Equal(t, SingleSig(keyOne), decResp.PrivateKeyInfo)

	decResp = codec.DecryptPrivateKeyInfo(generic.Info.Info, "wrong")
	require.Equal(t, "Invalid password", decResp.Error)
	encoded, err = json.Marshal(decResp)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"Invalid password"}`, string(encoded))

	resp = codec.EncryptPrivateKeyInfo(quote(keyOneWIF), testPassword)
	require.Equal(
		t, keyOneCompressedAddress, resp.EncryptedPrivateKeyInfo.Address,
	)

	m := testMultisig(t)
	resp = codec.EncryptPrivateKeyInfo(mustMarshal(t, m), testPassword)
	require.Empty(t, resp.Error)
	require.Equal(t, m.Address, resp.EncryptedPrivateKeyInfo.Address)
	require.True(t, strings.HasPrefix(m.Address, "3"))

	resp = codec.EncryptPrivateKeyInfo([]byte(`{"foo":1}`), testPassword)
	require.Equal(t, "Invalid private key info", resp.Error)
	require.False(t, resp.Status)

	decResp = codec.DecryptPrivateKeyInfo(quote(keyOne), testPassword)
	require.Equal(t, "Invalid encrypted private key info", decResp.Error)
}

// TestPrivateKeyInfoParams checks the signing policy of each bundle shape.
func TestPrivateKeyInfoParams(t *testing.T) {
	t.Parallel()

	params := PrivateKeyInfoParams(nil, testParams)
	require.Equal(t, KeyParams{M: 2, N: 3}, params.UnwrapOr(KeyParams{}))

	params = PrivateKeyInfoParams(SingleSig(keyOne), testParams)
	require.Equal(t, KeyParams{M: 1, N: 1}, params.UnwrapOr(KeyParams{}))

	m, err := MakeMultisigInfo(
		1, []string{keyOne, keyTwo}, testParams,
	)
	require.NoError(t, err)
	params = PrivateKeyInfoParams(m, testParams)
	require.Equal(t, KeyParams{M: 1, N: 2}, params.UnwrapOr(KeyParams{}))

	params = PrivateKeyInfoParams(&Multisig{
		PrivateKeys:  []string{keyOne},
		RedeemScript: "00",
	}, testParams)
	require.True(t, params.IsNone())

	params = PrivateKeyInfoParams(EncryptedSingleSig("YWJj"), testParams)
	require.True(t, params.IsNone())
}

// TestAddress checks bundle addresses.
func TestAddress(t *testing.T) {
	t.Parallel()

	address, err := Address(SingleSig(keyOne), testParams)
	require.NoError(t, err)
	require.Equal(t, keyOneAddress, address)

	m := testMultisig(t)
	address, err = Address(m, testParams)
	require.NoError(t, err)
	require.Equal(t, m.Address, address)

	_, err = Address(nil, testParams)
	require.ErrorIs(t, err, ErrNoKeyInfo)

	_, err = Address(EncryptedSingleSig("YWJj"), testParams)
	require.ErrorIs(t, err, ErrInvalidBundle)
}

// TestMakeMultisigInfo checks the bundle built from raw keys.
func TestMakeMultisigInfo(t *testing.T) {
	t.Parallel()

	m := testMultisig(t)
	require.Equal(t, []string{
		keyOne + "01", keyTwo + "01", keyThree + "01",
	}, m.PrivateKeys)

	// OP_2 <3 compressed keys> OP_3 OP_CHECKMULTISIG.
	script, err := hex.DecodeString(m.RedeemScript)
	require.NoError(t, err)
	require.Len(t, script, 1+3*34+2)
	require.Equal(t, byte(0x52), script[0])
	require.Equal(t, byte(0xae), script[len(script)-1])

	_, err = MakeMultisigInfo(4, []string{keyOne, keyTwo}, testParams)
	require.Error(t, err)

	_, err = MakeMultisigInfo(1, []string{"zz"}, testParams)
	require.Error(t, err)
}

// TestWalletKeys covers wallet key normalization and the role accessors.
func TestWalletKeys(t *testing.T) {
	t.Parallel()

	m := testMultisig(t)
	m.Address = ""
	keys, err := MakeWalletKeys(
		SingleSig(keyOneWIF), m, SingleSig(keyTwo), testParams,
	)
	require.NoError(t, err)
	require.Equal(t, SingleSig(keyOne+"01"), keys.DataPrivKey)
	require.Equal(t, SingleSig(keyTwo), keys.PaymentPrivKey)

	owner, err := keys.OwnerPrivateKeyInfo()
	require.NoError(t, err)
	require.Equal(t, testMultisig(t), owner)

	_, err = MakeWalletKeys(m, nil, nil, testParams)
	require.EqualError(t, err, "Invalid data key info")

	_, err = MakeWalletKeys(
		nil, SingleSig("zz"), nil, testParams,
	)
	require.Error(t, err)

	empty, err := MakeWalletKeys(nil, nil, nil, testParams)
	require.NoError(t, err)
	_, err = empty.OwnerPrivateKeyInfo()
	require.ErrorIs(t, err, ErrNoOwnerKey)
	_, err = empty.PaymentPrivateKeyInfo()
	require.ErrorIs(t, err, ErrNoPaymentKey)

	encoded, err := json.Marshal(keys)
	require.NoError(t, err)
	decoded, err := ParseWalletKeys(encoded)
	require.NoError(t, err)
	require.Equal(t, keys.DataPrivKey, decoded.DataPrivKey)
	require.Equal(t, keys.PaymentPrivKey, decoded.PaymentPrivKey)

	decodedOwner, ok := decoded.OwnerPrivKey.(*Multisig)
	require.True(t, ok)
	require.Equal(t, m.PrivateKeys, decodedOwner.PrivateKeys)
	require.Equal(t, m.RedeemScript, decodedOwner.RedeemScript)

	_, err = ParseWalletKeys([]byte(`{"owner_privkey":{"foo":1}}`))
	require.ErrorIs(t, err, ErrInvalidBundle)
}

// TestDataPrivateKey covers the data key lookup against zone files.
func TestDataPrivateKey(t *testing.T) {
	t.Parallel()

	zoneWithKey := "$ORIGIN alice.id\n$TTL 3600\n" +
		"pubkey TXT \"pubkey:data:" + uncompressedGenerator + "\"\n"
	zoneWithoutKey := "$ORIGIN alice.id\n$TTL 3600\n" +
		"_https._tcp URI 10 1 \"https://example.com/alice\"\n"
	zoneWithTwoKeys := zoneWithKey +
		"pubkey TXT \"pubkey:data:" + uncompressedGenerator + "\"\n"

	// The zone file vouches for the data key.
	keys := &WalletKeys{
		DataPrivKey:  SingleSig(keyOne),
		OwnerPrivKey: SingleSig(keyTwo),
	}
	dataKey, err := keys.DataPrivateKey(zoneWithKey)
	require.NoError(t, err)
	require.Equal(t, keyOne, dataKey)

	// Without a zone file key the data key must be the owner key.
	_, err = keys.DataPrivateKey(zoneWithoutKey)
	require.ErrorIs(t, err, ErrDataKeyMismatch)

	legacy := &WalletKeys{
		DataPrivKey:  SingleSig(keyOne),
		OwnerPrivKey: SingleSig(keyOne + "01"),
	}
	dataKey, err = legacy.DataPrivateKey(zoneWithoutKey)
	require.NoError(t, err)
	require.Equal(t, keyOne, dataKey)

	legacyMultisig := &WalletKeys{
		DataPrivKey:  SingleSig(keyOne),
		OwnerPrivKey: testMultisig(t),
	}
	dataKey, err = legacyMultisig.DataPrivateKey(zoneWithoutKey)
	require.NoError(t, err)
	require.Equal(t, keyOne, dataKey)

	// A zone file key the wallet does not hold.
	other := &WalletKeys{DataPrivKey: SingleSig(keyTwo)}
	_, err = other.DataPrivateKey(zoneWithKey)
	require.ErrorIs(t, err, ErrZonefileKeyMismatch)

	_, err = keys.DataPrivateKey(zoneWithTwoKeys)
	require.EqualError(t, err, "Multiple data public keys in zonefile")

	_, err = (&WalletKeys{}).DataPrivateKey(zoneWithKey)
	require.ErrorIs(t, err, ErrNoDataKey)
}

// TestRoundTripProperty checks encrypt then decrypt for random keys and
// passwords.
func TestRoundTripProperty(t *testing.T) {
	t.Parallel()

	codec := NewCodec(keycrypt.NewAESCipher(), testParams)
	rapid.Check(t, func(rt *rapid.T) {
		keyBytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "key")
		key := hex.EncodeToString(keyBytes)
		if rapid.Bool().Draw(rt, "compressed") {
			key += "01"
		}
		password := rapid.String().Draw(rt, "password")

		if !IsSingleSig(quote(key)) {
			// Zero and out of range scalars.
			return
		}

		encrypted, err := codec.Encrypt(SingleSig(key), password).Unpack()
		require.NoError(rt, err)

		decrypted, err := codec.Decrypt(encrypted, password).Unpack()
		require.NoError(rt, err)
		require.Equal(rt, SingleSig(key), decrypted)
	})
}
