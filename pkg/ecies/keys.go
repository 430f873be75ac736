package ecies

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

const (
	// SecretKeySize is the length of an encoded secret key.
	SecretKeySize = secp256k1.PrivKeyBytesLen
	// PublicKeySize is the length of an uncompressed public key.
	PublicKeySize = secp256k1.PubKeyBytesLenUncompressed
)

// SecretKey is a secp256k1 scalar x ∈ [1, n-1].
type SecretKey struct {
	key    *secp256k1.PrivateKey
	public *PublicKey
}

// PublicKey is the point x⋅G.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GenerateKey samples a fresh keypair.
func GenerateKey(rand io.Reader) (*SecretKey, error) {
	x, err := sample.ScalarUnit(rand, curve.Secp256k1{})
	if err != nil {
		return nil, fmt.Errorf("ecies.GenerateKey: %w", err)
	}
	data, err := x.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("ecies.GenerateKey: %w", err)
	}
	return newSecretKey(secp256k1.PrivKeyFromBytes(data)), nil
}

func newSecretKey(key *secp256k1.PrivateKey) *SecretKey {
	return &SecretKey{
		key:    key,
		public: &PublicKey{key: key.PubKey()},
	}
}

// ParseSecretKey decodes a 32 byte big-endian scalar in [1, n-1].
func ParseSecretKey(data []byte) (*SecretKey, error) {
	if len(data) != SecretKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes", ErrInvalidKey, SecretKeySize)
	}
	var x secp256k1.ModNScalar
	if overflow := x.SetByteSlice(data); overflow || x.IsZero() {
		return nil, fmt.Errorf("%w: secret key out of range", ErrInvalidKey)
	}
	return newSecretKey(secp256k1.NewPrivateKey(&x)), nil
}

// ParsePublicKey accepts compressed (33 bytes) and uncompressed (65 bytes)
// points. Points off the curve are rejected.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	key, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &PublicKey{key: key}, nil
}

func (sk *SecretKey) PublicKey() *PublicKey {
	return sk.public
}

// Bytes returns the secret scalar, big-endian.
func (sk *SecretKey) Bytes() []byte {
	return sk.key.Serialize()
}

// Bytes returns the uncompressed encoding 0x04 ∥ X ∥ Y.
func (pk *PublicKey) Bytes() []byte {
	return pk.key.SerializeUncompressed()
}

// CompressedBytes returns the 33 byte compressed encoding.
func (pk *PublicKey) CompressedBytes() []byte {
	return pk.key.SerializeCompressed()
}

func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.key.IsEqual(other.key)
}

// sharedPoint returns the uncompressed encoding of x⋅P.
//
// secp256k1 only offers a variable time multiplication by an arbitrary point,
// so this must only be called with ephemeral scalars. Long-term keys go
// through blindedSharedPoint.
func sharedPoint(x *secp256k1.PrivateKey, P *secp256k1.PublicKey) []byte {
	var point, result secp256k1.JacobianPoint
	P.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&x.Key, &point, &result)
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y).SerializeUncompressed()
}

// blindedSharedPoint returns the same point as sharedPoint, computed as
// a⋅P + (x - a)⋅P for a fresh random a, so that the timing of each
// multiplication depends on a uniform scalar rather than on x.
func blindedSharedPoint(rand io.Reader, x *secp256k1.PrivateKey, P *secp256k1.PublicKey) ([]byte, error) {
	a, err := sample.ScalarUnit(rand, curve.Secp256k1{})
	if err != nil {
		return nil, err
	}
	data, err := a.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var mask secp256k1.ModNScalar
	mask.SetByteSlice(data)
	var rest secp256k1.ModNScalar
	rest.NegateVal(&mask).Add(&x.Key)

	var point, left, right, result secp256k1.JacobianPoint
	P.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&mask, &point, &left)
	secp256k1.ScalarMultNonConst(&rest, &point, &right)
	secp256k1.AddNonConst(&left, &right, &result)
	mask.Zero()
	rest.Zero()
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y).SerializeUncompressed(), nil
}
