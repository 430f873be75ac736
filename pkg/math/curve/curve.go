package curve

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
)

// ErrUnknownGroup is returned by FromName for names that no group answers to.
var ErrUnknownGroup = errors.New("curve: unknown group")

// Curve represents a prime order group, written additively.
//
// The name is historical: besides elliptic curves, this also covers Schnorr
// subgroups of ℤₚˣ, see ModP.
type Curve interface {
	// NewPoint returns the identity element.
	NewPoint() Point
	NewBasePoint() Point
	// NewScalar returns the scalar 0.
	NewScalar() Scalar
	Name() string
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes to reduce in order to get
	// a scalar with negligible bias.
	SafeScalarBytes() int
	// PointBytes is the length of the fixed width encoding of a point.
	PointBytes() int
	// ScalarBytes is the length of the fixed width encoding of a scalar.
	ScalarBytes() int
	Order() *saferith.Modulus
}

// Scalar represents a number modulo the order of a group.
//
// Scalars of every group marshal as fixed width big endian numbers.
//
// Arithmetic methods modify the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	// Invert sets s to s⁻¹; the zero scalar stays zero.
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	// Act returns s⋅P.
	Act(Point) Point
	// ActOnBase returns s⋅G.
	ActOnBase() Point
}

// Point represents an element of a group.
//
// Methods never modify the receiver and return fresh values, with the exception of Set.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}

// FromName returns the group registered under name.
//
// Custom ModP groups are not registered, only the presets are.
func FromName(name string) (Curve, error) {
	switch name {
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	case Ristretto255{}.Name():
		return Ristretto255{}, nil
	case RFC3526ModP3072().Name():
		return RFC3526ModP3072(), nil
	case TestModP().Name():
		return TestModP(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// MakeNat converts a scalar into a natural number in [0, order).
func MakeNat(s Scalar) *saferith.Nat {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(bytes)
}

// FromHash converts a hash value to a Scalar.
//
// The hash is truncated to the byte length of the order, and excess bits are
// shifted out, the way crypto/ecdsa does it. The result is then reduced.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}

// Equal returns true if both values describe the same group.
func Equal(a, b Curve) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Name() != b.Name() {
		return false
	}
	pa, okA := a.(*ModP)
	pb, okB := b.(*ModP)
	if okA != okB {
		return false
	}
	if okA {
		return pa.p.Nat().Eq(pb.p.Nat()) == 1 && pa.g.Eq(pb.g) == 1
	}
	return true
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
