package votecrypt

import (
	"fmt"

	"github.com/taurusgroup/vote-primitives/pkg/ecies"
)

// GenerateECCKeypair returns a secp256k1 keypair: the uncompressed public point
// and the 32 byte secret scalar.
func (t *Toolkit) GenerateECCKeypair() (public, secret []byte, err error) {
	sk, err := ecies.GenerateKey(t.rand)
	if err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateECCKeypair: %w", err)
	}
	return sk.PublicKey().Bytes(), sk.Bytes(), nil
}

// ECCEncrypt encrypts plaintext to a compressed or uncompressed secp256k1 public key.
func (t *Toolkit) ECCEncrypt(public, plaintext []byte) ([]byte, error) {
	pk, err := ecies.ParsePublicKey(public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.ECCEncrypt: %w", err)
	}
	ct, err := ecies.Encrypt(t.rand, pk, plaintext, ecies.WithSuite(t.suite))
	if err != nil {
		return nil, fmt.Errorf("votecrypt.ECCEncrypt: %w", err)
	}
	t.log.Debug().Int("size", len(ct)).Msg("ecies encrypted")
	return ct, nil
}

// ECCDecrypt opens a ciphertext from ECCEncrypt.
func (t *Toolkit) ECCDecrypt(secret, ciphertext []byte) ([]byte, error) {
	sk, err := ecies.ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.ECCDecrypt: %w", err)
	}
	pt, err := ecies.Decrypt(sk, ciphertext, ecies.WithSuite(t.suite), ecies.WithBlinding(t.rand))
	if err != nil {
		t.log.Debug().Int("size", len(ciphertext)).Msg("ecies decryption failed")
		return nil, fmt.Errorf("votecrypt.ECCDecrypt: %w", err)
	}
	return pt, nil
}
