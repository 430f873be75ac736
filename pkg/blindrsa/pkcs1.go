package blindrsa

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// SignPKCS1v15 signs SHA-256(message) with RSASSA-PKCS1-v1_5. The signature is
// deterministic.
func SignPKCS1v15(sk *SecretKey, message []byte) ([]byte, error) {
	if sk == nil {
		return nil, ErrInvalidKey
	}
	digest := sha256.Sum256(message)
	// crypto/rsa no longer reads its random argument
	sig, err := rsa.SignPKCS1v15(nil, sk.rsaKey(), crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFault, err)
	}
	return sig, nil
}

// VerifyPKCS1v15 checks an RSASSA-PKCS1-v1_5 signature over SHA-256(message).
func VerifyPKCS1v15(pk *PublicKey, message, signature []byte) error {
	if pk == nil {
		return ErrInvalidKey
	}
	if len(signature) != pk.Size() {
		return fmt.Errorf("%w: signature has %d bytes instead of %d", ErrInvalidSignature, len(signature), pk.Size())
	}
	digest := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(pk.rsaKey(), crypto.SHA256, digest[:], signature); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// EncryptPKCS1v15 encrypts message with RSAES-PKCS1-v1_5.
// The message may be at most pk.Size() - 11 bytes long.
func EncryptPKCS1v15(rand io.Reader, pk *PublicKey, message []byte) ([]byte, error) {
	if pk == nil {
		return nil, ErrInvalidKey
	}
	ct, err := rsa.EncryptPKCS1v15(rand, pk.rsaKey(), message)
	switch {
	case errors.Is(err, rsa.ErrMessageTooLong):
		return nil, fmt.Errorf("%w: %d bytes, at most %d", ErrMessageTooLong, len(message), pk.Size()-11)
	case err != nil:
		return nil, fmt.Errorf("blindrsa.EncryptPKCS1v15: %w: %v", sample.ErrRandomness, err)
	}
	return ct, nil
}

// DecryptPKCS1v15 opens a ciphertext produced by EncryptPKCS1v15.
//
// PKCS #1 v1.5 padding is malleable and offers no integrity: callers must not
// reveal why a decryption failed. Every failure is reported as ErrDecryption.
func DecryptPKCS1v15(sk *SecretKey, ciphertext []byte) ([]byte, error) {
	if sk == nil {
		return nil, ErrInvalidKey
	}
	pt, err := rsa.DecryptPKCS1v15(nil, sk.rsaKey(), ciphertext)
	if err != nil {
		return nil, ErrDecryption
	}
	return pt, nil
}
