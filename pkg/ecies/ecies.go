// Package ecies implements hybrid public key encryption over secp256k1.
//
// A ciphertext is
//
//	ephemeral public key (65) ∥ nonce ∥ tag (16) ∥ ciphertext
//
// where the AEAD key is HKDF-SHA256(ephemeral ∥ shared point), both points
// uncompressed.
package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// MaxPlaintextSize is the largest payload Encrypt accepts.
const MaxPlaintextSize = params.MaxECIESPlaintext

const (
	keySize = 32
	tagSize = 16
)

var (
	// ErrInvalidKey is returned for public keys that are malformed, off the curve, or at infinity.
	ErrInvalidKey = errors.New("ecies: invalid key")
	// ErrAuthentication is returned by Decrypt for any ciphertext that doesn't open.
	ErrAuthentication = errors.New("ecies: authentication failed")
	// ErrPlaintextTooLarge is returned by Encrypt for payloads over MaxPlaintextSize.
	ErrPlaintextTooLarge = errors.New("ecies: plaintext too large")
	// ErrUnknownSuite is returned for unsupported cipher suites.
	ErrUnknownSuite = errors.New("ecies: unknown cipher suite")
)

// Suite selects the AEAD.
type Suite uint8

const (
	// AES256GCM uses AES-256 in GCM mode with a 16 byte nonce.
	AES256GCM Suite = iota
	// XChaCha20Poly1305 uses a 24 byte nonce.
	XChaCha20Poly1305
)

func (s Suite) String() string {
	switch s {
	case AES256GCM:
		return "aes256gcm"
	case XChaCha20Poly1305:
		return "xchacha20poly1305"
	default:
		return fmt.Sprintf("suite(%d)", uint8(s))
	}
}

// ParseSuite is the inverse of Suite.String.
func ParseSuite(name string) (Suite, error) {
	switch strings.ToLower(name) {
	case "", "aes256gcm":
		return AES256GCM, nil
	case "xchacha20poly1305":
		return XChaCha20Poly1305, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
}

// NonceSize returns the length of the nonce stored in ciphertexts.
func (s Suite) NonceSize() int {
	if s == XChaCha20Poly1305 {
		return chacha20poly1305.NonceSizeX
	}
	return 16
}

// Overhead is the difference in length between a ciphertext and its plaintext.
func (s Suite) Overhead() int {
	return PublicKeySize + s.NonceSize() + tagSize
}

func (s Suite) aead(key []byte) (cipher.AEAD, error) {
	switch s {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCMWithNonceSize(block, s.NonceSize())
	case XChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	}
	return nil, ErrUnknownSuite
}

type options struct {
	suite Suite
	// blinding masks the secret key in Decrypt
	blinding io.Reader
}

// Option configures Encrypt and Decrypt. Both sides must agree.
type Option func(*options)

// WithSuite selects the AEAD, AES256GCM by default.
func WithSuite(s Suite) Option {
	return func(o *options) {
		o.suite = s
	}
}

// WithBlinding sets the randomness Decrypt uses to mask the secret key,
// crypto/rand by default. Encrypt ignores it.
func WithBlinding(rand io.Reader) Option {
	return func(o *options) {
		o.blinding = rand
	}
}

func makeOptions(opts []Option) options {
	o := options{suite: AES256GCM, blinding: cryptorand.Reader}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// deriveKey returns HKDF-SHA256(ephemeral ∥ shared).
func deriveKey(ephemeral, shared []byte) ([]byte, error) {
	ikm := make([]byte, 0, len(ephemeral)+len(shared))
	ikm = append(ikm, ephemeral...)
	ikm = append(ikm, shared...)
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, nil), key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt encrypts plaintext to pk under a fresh ephemeral key.
func Encrypt(rand io.Reader, pk *PublicKey, plaintext []byte, opts ...Option) ([]byte, error) {
	if pk == nil || pk.key == nil {
		return nil, ErrInvalidKey
	}
	if len(plaintext) > MaxPlaintextSize {
		return nil, ErrPlaintextTooLarge
	}
	o := makeOptions(opts)

	ephemeral, err := GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("ecies.Encrypt: %w", err)
	}
	ephemeralBytes := ephemeral.public.Bytes()
	key, err := deriveKey(ephemeralBytes, sharedPoint(ephemeral.key, pk.key))
	if err != nil {
		return nil, fmt.Errorf("ecies.Encrypt: %w", err)
	}
	aead, err := o.suite.aead(key)
	if err != nil {
		return nil, fmt.Errorf("ecies.Encrypt: %w", err)
	}

	nonceSize := o.suite.NonceSize()
	out := make([]byte, PublicKeySize+nonceSize+tagSize, o.suite.Overhead()+len(plaintext))
	copy(out, ephemeralBytes)
	nonce := out[PublicKeySize : PublicKeySize+nonceSize]
	if _, err = io.ReadFull(rand, nonce); err != nil {
		return nil, fmt.Errorf("ecies.Encrypt: %w", sample.ErrRandomness)
	}

	// Seal returns ct ∥ tag, which we store as tag ∥ ct.
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	ct, tag := sealed[:len(plaintext)], sealed[len(plaintext):]
	copy(out[PublicKeySize+nonceSize:], tag)
	return append(out, ct...), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Every invalid ciphertext is
// reported as ErrAuthentication.
func Decrypt(sk *SecretKey, data []byte, opts ...Option) ([]byte, error) {
	if sk == nil || sk.key == nil {
		return nil, ErrInvalidKey
	}
	o := makeOptions(opts)
	nonceSize := o.suite.NonceSize()
	if len(data) < o.suite.Overhead() || len(data)-o.suite.Overhead() > MaxPlaintextSize {
		return nil, ErrAuthentication
	}
	ephemeralBytes := data[:PublicKeySize]
	if ephemeralBytes[0] != secp256k1.PubKeyFormatUncompressed {
		return nil, ErrAuthentication
	}
	ephemeral, err := secp256k1.ParsePubKey(ephemeralBytes)
	if err != nil {
		return nil, ErrAuthentication
	}
	shared, err := blindedSharedPoint(o.blinding, sk.key, ephemeral)
	if err != nil {
		return nil, fmt.Errorf("ecies.Decrypt: %w", err)
	}
	key, err := deriveKey(ephemeralBytes, shared)
	if err != nil {
		return nil, ErrAuthentication
	}
	aead, err := o.suite.aead(key)
	if err != nil {
		return nil, ErrAuthentication
	}

	nonce := data[PublicKeySize : PublicKeySize+nonceSize]
	tag := data[PublicKeySize+nonceSize : PublicKeySize+nonceSize+tagSize]
	ct := data[PublicKeySize+nonceSize+tagSize:]
	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)
	plaintext, err := aead.Open(sealed[:0], nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
