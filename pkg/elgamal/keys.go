package elgamal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// SecretKey is held by the tally authority.
type SecretKey struct {
	params Params
	// x ∈ [1, q-1]
	x curve.Scalar
	// y = x⋅G
	public *PublicKey
}

// PublicKey is the key ballots are encrypted to.
type PublicKey struct {
	params Params
	// y = x⋅G
	y curve.Point
}

// keyWire is the serialized form of both keys: the name of the group, followed
// by the encoding of the point or scalar.
type keyWire struct {
	Group string `cbor:"1,keyasint"`
	Data  []byte `cbor:"2,keyasint"`
}

// GenerateKeypair samples x ∈ [1, q-1], and returns it with y = x⋅G.
func GenerateKeypair(rand io.Reader, params Params) (*SecretKey, *PublicKey, error) {
	if !params.valid() {
		return nil, nil, ErrInvalidParams
	}
	x, y, err := sample.ScalarPointPair(rand, params.group)
	if err != nil {
		return nil, nil, fmt.Errorf("elgamal.GenerateKeypair: %w", err)
	}
	public := &PublicKey{params: params, y: y}
	return &SecretKey{params: params, x: x, public: public}, public, nil
}

func (sk *SecretKey) PublicKey() *PublicKey {
	return sk.public
}

func (sk *SecretKey) Params() Params {
	return sk.params
}

func (pk *PublicKey) Params() Params {
	return pk.params
}

// Point returns y.
func (pk *PublicKey) Point() curve.Point {
	return pk.y
}

// Equal returns true if both keys are the same point of the same group.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return curve.Equal(pk.params.group, other.params.group) && pk.y.Equal(other.y)
}

// MarshalBinary returns the deterministic CBOR map {1: group name, 2: y}.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	data, err := pk.y.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return marshalKey(pk.params.group, data)
}

// MarshalBinary returns the deterministic CBOR map {1: group name, 2: x}.
//
// The output is secret.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	data, err := sk.x.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return marshalKey(sk.params.group, data)
}

// ParsePublicKey decodes a public key for the group of params.
func ParsePublicKey(params Params, data []byte) (*PublicKey, error) {
	raw, err := unmarshalKey(params, data)
	if err != nil {
		return nil, err
	}
	y, err := curve.DecodePoint(params.group, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if y.IsIdentity() {
		return nil, fmt.Errorf("%w: identity", ErrInvalidKey)
	}
	return &PublicKey{params: params, y: y}, nil
}

// ParseSecretKey decodes a secret key for the group of params.
func ParseSecretKey(params Params, data []byte) (*SecretKey, error) {
	raw, err := unmarshalKey(params, data)
	if err != nil {
		return nil, err
	}
	x, err := curve.DecodeScalar(params.group, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewSecretKey(params, x)
}

// NewSecretKey wraps a scalar, for instance one recovered from shares, as a secret key.
func NewSecretKey(params Params, x curve.Scalar) (*SecretKey, error) {
	if !params.valid() {
		return nil, ErrInvalidParams
	}
	if x == nil || x.IsZero() || !curve.Equal(x.Curve(), params.group) {
		return nil, fmt.Errorf("%w: scalar must be non zero and in %s", ErrInvalidKey, params.group.Name())
	}
	x = params.group.NewScalar().Set(x)
	public := &PublicKey{params: params, y: x.ActOnBase()}
	return &SecretKey{params: params, x: x, public: public}, nil
}

// Scalar returns a copy of x.
func (sk *SecretKey) Scalar() curve.Scalar {
	return sk.params.group.NewScalar().Set(sk.x)
}

func marshalKey(group curve.Curve, data []byte) ([]byte, error) {
	return cborEncoding.Marshal(keyWire{Group: group.Name(), Data: data})
}

func unmarshalKey(params Params, data []byte) ([]byte, error) {
	if !params.valid() {
		return nil, ErrInvalidParams
	}
	var w keyWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if w.Group != params.group.Name() {
		return nil, fmt.Errorf("%w: key for group %q, expected %q", ErrInvalidKey, w.Group, params.group.Name())
	}
	return w.Data, nil
}

// cborEncoding produces the deterministic core encoding of RFC 8949, §4.2.
var cborEncoding = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()
