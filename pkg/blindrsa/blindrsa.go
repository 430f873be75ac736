// Package blindrsa implements RSA blind signatures: a signer issues signatures
// on messages it never sees, and cannot link a signature to the request it
// answered.
//
// Messages are encoded with a deterministic full domain hash, see EncodeMessage.
//
// The same keys also serve plain PKCS #1 v1.5 signatures and encryption, for
// messages that need no blinding.
package blindrsa

import "errors"

var (
	// ErrEncoding is returned when a message can't be encoded for a key.
	ErrEncoding = errors.New("blindrsa: message encoding failed")
	// ErrKeyGeneration is returned when GenerateKey fails to produce a key.
	ErrKeyGeneration = errors.New("blindrsa: key generation failed")
	// ErrInvalidFactor is returned when a blinding factor is not invertible, or belongs to another key.
	ErrInvalidFactor = errors.New("blindrsa: invalid blinding factor")
	// ErrInvalidKey is returned for malformed or unsupported keys.
	ErrInvalidKey = errors.New("blindrsa: invalid key")
	// ErrInvalidBlindedMessage is returned by Sign for values outside of ℤₙˣ.
	ErrInvalidBlindedMessage = errors.New("blindrsa: invalid blinded message")
	// ErrSigningFault is returned by Sign when the computed signature doesn't verify.
	ErrSigningFault = errors.New("blindrsa: signature failed self check")
	// ErrInvalidSignature is returned for malformed signatures, or signatures that don't verify.
	ErrInvalidSignature = errors.New("blindrsa: invalid signature")
	// ErrDecryption is returned by DecryptPKCS1v15 for any invalid ciphertext.
	ErrDecryption = errors.New("blindrsa: decryption failed")
	// ErrMessageTooLong is returned by EncryptPKCS1v15 for messages longer than Size() - 11 bytes.
	ErrMessageTooLong = errors.New("blindrsa: message too long for key")
	// ErrState is returned when a Requester is driven out of order.
	ErrState = errors.New("blindrsa: operation not allowed in current state")
)
