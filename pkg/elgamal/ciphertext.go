package elgamal

import (
	"fmt"
	"io"

	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

type Ciphertext struct {
	// L = nonce⋅G
	L curve.Point
	// M = vote⋅G + nonce⋅Y
	M curve.Point
}

// Empty returns a ciphertext to be unmarshalled into.
func Empty(group curve.Curve) *Ciphertext {
	return &Ciphertext{
		L: group.NewPoint(),
		M: group.NewPoint(),
	}
}

// Zero returns (0, 0), an encryption of 0 with nonce 0, which is the neutral
// element of Add.
func Zero(group curve.Curve) *Ciphertext {
	return Empty(group)
}

// Add returns a ciphertext of the sum of both plaintexts, under the same key.
//
// Neither c nor other is modified.
func (c *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	return &Ciphertext{
		L: c.L.Add(other.L),
		M: c.M.Add(other.M),
	}
}

// Group returns the group c was created in.
func (c *Ciphertext) Group() curve.Curve {
	return c.L.Curve()
}

// Valid checks that both components are set and belong to the same group.
func (c *Ciphertext) Valid() bool {
	if c == nil || c.L == nil || c.M == nil {
		return false
	}
	return curve.Equal(c.L.Curve(), c.M.Curve())
}

// MarshalBinary returns L ∥ M, in the fixed width encoding of the group.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCiphertext
	}
	l, err := c.L.MarshalBinary()
	if err != nil {
		return nil, err
	}
	m, err := c.M.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(l, m...), nil
}

// UnmarshalBinary expects a ciphertext created with Empty, and validates both points.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	if c.L == nil {
		return fmt.Errorf("%w: group must be set, use Empty", ErrInvalidCiphertext)
	}
	group := c.L.Curve()
	size := group.PointBytes()
	if len(data) != 2*size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidCiphertext, 2*size, len(data))
	}
	L, err := curve.DecodePoint(group, data[:size])
	if err != nil {
		return fmt.Errorf("%w: L: %v", ErrInvalidCiphertext, err)
	}
	M, err := curve.DecodePoint(group, data[size:])
	if err != nil {
		return fmt.Errorf("%w: M: %v", ErrInvalidCiphertext, err)
	}
	c.L, c.M = L, M
	return nil
}

// WriteTo implements io.WriterTo interface.
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Ciphertext) Domain() string {
	return "ElGamal Ciphertext"
}
