package keycrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// aesPadBlock is the padding granularity of the AES scheme. It is twice the
// AES block size, which is what existing wallets wrote.
const aesPadBlock = 32

// AESCipher implements Cipher with AES-256-CBC. The AES key is the SHA-256
// digest of the raw secret, and ciphertexts are base64(iv || ct) with the
// plaintext padded PKCS#7 style to a multiple of 32 bytes.
type AESCipher struct {
	rand io.Reader
}

// A compile-time check to ensure AESCipher implements Cipher.
var _ Cipher = (*AESCipher)(nil)

// NewAESCipher returns an AESCipher reading IVs from crypto/rand.
func NewAESCipher() *AESCipher {
	return &AESCipher{rand: rand.Reader}
}

// Name returns the identifier of the cipher.
func (c *AESCipher) Name() string {
	return CipherAES
}

// Encrypt encrypts plaintext under hexKey.
func (c *AESCipher) Encrypt(plaintext []byte, hexKey string) (string, error) {
	block, err := c.block(hexKey)
	if err != nil {
		return "", err
	}

	padded := pad(plaintext)
	defer zero(padded)

	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", fmt.Errorf("unable to read iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(
		out[aes.BlockSize:], padded,
	)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt decrypts a ciphertext produced by Encrypt.
func (c *AESCipher) Decrypt(ciphertext string, hexKey string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	if len(raw) < aes.BlockSize+aesPadBlock ||
		(len(raw)-aes.BlockSize)%aes.BlockSize != 0 {

		return nil, fmt.Errorf("%w: bad length %d",
			ErrMalformedCiphertext, len(raw))
	}

	block, err := c.block(hexKey)
	if err != nil {
		return nil, err
	}

	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)

	unpadded, err := unpad(plaintext)
	if err != nil {
		zero(plaintext)
		return nil, err
	}

	return unpadded, nil
}

func (c *AESCipher) block(hexKey string) (cipher.Block, error) {
	secret, err := decodeKey(hexKey)
	if err != nil {
		return nil, err
	}
	defer zero(secret)

	key := sha256.Sum256(secret)
	defer zero(key[:])

	return aes.NewCipher(key[:])
}

func pad(plaintext []byte) []byte {
	n := aesPadBlock - len(plaintext)%aesPadBlock

	return append(
		append([]byte{}, plaintext...),
		bytes.Repeat([]byte{byte(n)}, n)...,
	)
}

func unpad(padded []byte) ([]byte, error) {
	if len(padded) == 0 {
		return nil, ErrDecryptFailed
	}

	n := int(padded[len(padded)-1])
	if n == 0 || n > aesPadBlock || n > len(padded) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryptFailed)
	}
	for _, b := range padded[len(padded)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding",
				ErrDecryptFailed)
		}
	}

	return padded[:len(padded)-n], nil
}
