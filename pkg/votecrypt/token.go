package votecrypt

import (
	"fmt"

	"github.com/taurusgroup/vote-primitives/pkg/blindrsa"
)

// GenerateRSAKeypair returns a blind signature keypair as PKIX and PKCS #1 DER.
// A bits value of 0 uses the configured size.
func (t *Toolkit) GenerateRSAKeypair(bits int) (public, secret []byte, err error) {
	cfg := t.config.RSA
	if bits != 0 {
		cfg.Bits = bits
	}
	t.log.Debug().Int("bits", cfg.Bits).Msg("generating rsa keypair")
	sk, err := blindrsa.GenerateKey(t.rand, t.pool, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateRSAKeypair: %w", err)
	}
	if public, err = sk.PublicKey().MarshalPKIX(); err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateRSAKeypair: %w", err)
	}
	return public, sk.MarshalPKCS1(), nil
}

// CreateRequest blinds message for the signer. The factor must be kept to unblind the answer.
func (t *Toolkit) CreateRequest(public, message []byte) (blinded, factor []byte, err error) {
	pk, err := blindrsa.ParsePublicKey(public)
	if err != nil {
		return nil, nil, fmt.Errorf("votecrypt.CreateRequest: %w", err)
	}
	req, f, err := blindrsa.CreateRequest(t.rand, pk, message)
	if err != nil {
		return nil, nil, fmt.Errorf("votecrypt.CreateRequest: %w", err)
	}
	if factor, err = f.MarshalBinary(); err != nil {
		return nil, nil, fmt.Errorf("votecrypt.CreateRequest: %w", err)
	}
	t.log.Debug().Int("size", len(req.BlindedMessage)).Msg("blind request created")
	return req.BlindedMessage, factor, nil
}

// Sign signs a blinded message.
func (t *Toolkit) Sign(secret, blinded []byte) ([]byte, error) {
	sk, err := blindrsa.ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.Sign: %w", err)
	}
	sig, err := blindrsa.Sign(sk, blinded)
	if err != nil {
		t.log.Debug().Err(err).Msg("blind signing refused")
		return nil, fmt.Errorf("votecrypt.Sign: %w", err)
	}
	t.log.Debug().Msg("blinded message signed")
	return sig, nil
}

// Unblind turns the signer's answer into a signature on the original message.
func (t *Toolkit) Unblind(factor, blindSig, public []byte) ([]byte, error) {
	pk, err := blindrsa.ParsePublicKey(public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.Unblind: %w", err)
	}
	var f blindrsa.BlindingFactor
	if err = f.UnmarshalBinary(factor); err != nil {
		return nil, fmt.Errorf("votecrypt.Unblind: %w", err)
	}
	sig, err := blindrsa.Unblind(&f, blindSig, pk)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.Unblind: %w", err)
	}
	return sig, nil
}

// Verify returns true if signature is valid for message. Malformed inputs return false.
func (t *Toolkit) Verify(public, message, signature []byte) bool {
	pk, err := blindrsa.ParsePublicKey(public)
	if err != nil {
		return false
	}
	ok := blindrsa.Verify(pk, message, signature)
	t.log.Debug().Bool("valid", ok).Msg("signature verified")
	return ok
}

// RSASign signs message with plain PKCS #1 v1.5 and SHA-256, for messages
// that need no blinding.
func (t *Toolkit) RSASign(secret, message []byte) ([]byte, error) {
	sk, err := blindrsa.ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RSASign: %w", err)
	}
	sig, err := blindrsa.SignPKCS1v15(sk, message)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RSASign: %w", err)
	}
	return sig, nil
}

// RSAVerify returns true if signature is a PKCS #1 v1.5 signature of message.
// Malformed inputs return false.
func (t *Toolkit) RSAVerify(public, message, signature []byte) bool {
	pk, err := blindrsa.ParsePublicKey(public)
	if err != nil {
		return false
	}
	err = blindrsa.VerifyPKCS1v15(pk, message, signature)
	t.log.Debug().Err(err).Msg("pkcs1 signature verified")
	return err == nil
}

// RSAEncrypt encrypts a short message to public with PKCS #1 v1.5 padding.
func (t *Toolkit) RSAEncrypt(public, message []byte) ([]byte, error) {
	pk, err := blindrsa.ParsePublicKey(public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RSAEncrypt: %w", err)
	}
	ct, err := blindrsa.EncryptPKCS1v15(t.rand, pk, message)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RSAEncrypt: %w", err)
	}
	return ct, nil
}

// RSADecrypt opens a ciphertext produced by RSAEncrypt.
func (t *Toolkit) RSADecrypt(secret, ciphertext []byte) ([]byte, error) {
	sk, err := blindrsa.ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RSADecrypt: %w", err)
	}
	pt, err := blindrsa.DecryptPKCS1v15(sk, ciphertext)
	if err != nil {
		t.log.Debug().Msg("pkcs1 decryption failed")
		return nil, fmt.Errorf("votecrypt.RSADecrypt: %w", err)
	}
	return pt, nil
}
