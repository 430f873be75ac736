package curve

import (
	"encoding/hex"
	"fmt"

	"github.com/cloudflare/circl/group"
	"github.com/cronokirby/saferith"
)

var ristretto255Order = func() *saferith.Modulus {
	data, _ := hex.DecodeString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed")
	return saferith.ModulusFromBytes(data)
}()

// Ristretto255 is the prime order group built on top of Curve25519.
type Ristretto255 struct{}

func (Ristretto255) NewPoint() Point {
	return &Ristretto255Point{value: group.Ristretto255.Identity()}
}

func (Ristretto255) NewBasePoint() Point {
	return &Ristretto255Point{value: group.Ristretto255.Generator()}
}

func (Ristretto255) NewScalar() Scalar {
	return &Ristretto255Scalar{value: group.Ristretto255.NewScalar()}
}

func (Ristretto255) Name() string {
	return "ristretto255"
}

func (Ristretto255) ScalarBits() int {
	return 253
}

func (Ristretto255) SafeScalarBytes() int {
	return 32 + 16
}

func (Ristretto255) PointBytes() int {
	return 32
}

func (Ristretto255) ScalarBytes() int {
	return 32
}

func (Ristretto255) Order() *saferith.Modulus {
	return ristretto255Order
}

type Ristretto255Scalar struct {
	value group.Scalar
}

func ristretto255CastScalar(generic Scalar) *Ristretto255Scalar {
	out, ok := generic.(*Ristretto255Scalar)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Scalar: %v", generic))
	}
	return out
}

func (*Ristretto255Scalar) Curve() Curve {
	return Ristretto255{}
}

// MarshalBinary returns the big endian encoding of s.
//
// circl works with little endian scalars, we flip them at the boundary so that
// every group in this package shares the same convention.
func (s *Ristretto255Scalar) MarshalBinary() ([]byte, error) {
	data, err := s.value.MarshalBinary()
	if err != nil {
		return nil, err
	}
	reverse(data)
	return data, nil
}

func (s *Ristretto255Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for ristretto255 scalar: %d", len(data))
	}
	little := make([]byte, 32)
	copy(little, data)
	reverse(little)
	v := group.Ristretto255.NewScalar()
	if err := v.UnmarshalBinary(little); err != nil {
		return fmt.Errorf("invalid bytes for ristretto255 scalar: %w", err)
	}
	s.value = v
	return nil
}

func (s *Ristretto255Scalar) Add(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Add(s.value, other.value)
	return s
}

func (s *Ristretto255Scalar) Sub(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Sub(s.value, other.value)
	return s
}

func (s *Ristretto255Scalar) Mul(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Mul(s.value, other.value)
	return s
}

func (s *Ristretto255Scalar) Invert() Scalar {
	s.value.Inv(s.value)
	return s
}

func (s *Ristretto255Scalar) Negate() Scalar {
	s.value.Neg(s.value)
	return s
}

func (s *Ristretto255Scalar) Equal(that Scalar) bool {
	other := ristretto255CastScalar(that)

	return s.value.IsEqual(other.value)
}

func (s *Ristretto255Scalar) IsZero() bool {
	return s.value.IsEqual(group.Ristretto255.NewScalar())
}

func (s *Ristretto255Scalar) Set(that Scalar) Scalar {
	other := ristretto255CastScalar(that)

	s.value.Set(other.value)
	return s
}

func (s *Ristretto255Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, ristretto255Order)
	s.value.SetBigInt(reduced.Big())
	return s
}

func (s *Ristretto255Scalar) Act(that Point) Point {
	other := ristretto255CastPoint(that)

	out := group.Ristretto255.NewElement()
	out.Mul(other.value, s.value)
	return &Ristretto255Point{value: out}
}

func (s *Ristretto255Scalar) ActOnBase() Point {
	out := group.Ristretto255.NewElement()
	out.MulGen(s.value)
	return &Ristretto255Point{value: out}
}

type Ristretto255Point struct {
	value group.Element
}

func ristretto255CastPoint(generic Point) *Ristretto255Point {
	out, ok := generic.(*Ristretto255Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to ristretto255Point: %v", generic))
	}
	return out
}

func (*Ristretto255Point) Curve() Curve {
	return Ristretto255{}
}

func (p *Ristretto255Point) MarshalBinary() ([]byte, error) {
	return p.value.MarshalBinaryCompress()
}

// UnmarshalBinary only accepts canonical encodings.
func (p *Ristretto255Point) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return fmt.Errorf("invalid length for ristretto255Point: %d", len(data))
	}
	v := group.Ristretto255.NewElement()
	if err := v.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("invalid ristretto255Point: %w", err)
	}
	p.value = v
	return nil
}

func (p *Ristretto255Point) Add(that Point) Point {
	other := ristretto255CastPoint(that)

	out := group.Ristretto255.NewElement()
	out.Add(p.value, other.value)
	return &Ristretto255Point{value: out}
}

func (p *Ristretto255Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *Ristretto255Point) Set(that Point) Point {
	other := ristretto255CastPoint(that)

	p.value = other.value.Copy()
	return p
}

func (p *Ristretto255Point) Negate() Point {
	out := group.Ristretto255.NewElement()
	out.Neg(p.value)
	return &Ristretto255Point{value: out}
}

func (p *Ristretto255Point) Equal(that Point) bool {
	other := ristretto255CastPoint(that)

	return p.value.IsEqual(other.value)
}

func (p *Ristretto255Point) IsIdentity() bool {
	return p.value.IsIdentity()
}
