package sample

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

const maxIterations = 255

// ErrRandomness is returned when the randomness source fails to produce bytes.
var ErrRandomness = errors.New("sample: randomness source failed")

// ErrMaxIterations is returned when rejection sampling keeps rejecting candidates,
// which only happens with a broken randomness source.
var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func readBits(rand io.Reader, buf []byte) error {
	var err error
	for i := 0; i < maxIterations; i++ {
		if _, err = io.ReadFull(rand, buf); err == nil {
			return nil
		}
		// a reader reporting EOF won't recover
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrRandomness, err)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	// the top byte is masked, so each candidate is accepted with probability > 1/2
	mask := byte(0xFF) >> uint(len(buf)*8-n.BitLen())
	for i := 0; i < maxIterations; i++ {
		if err := readBits(rand, buf); err != nil {
			return nil, err
		}
		buf[0] &= mask
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			return out, nil
		}
	}
	return nil, ErrMaxIterations
}

// UnitModN returns a u ∈ ℤₙˣ.
func UnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		u, err := ModN(rand, n)
		if err != nil {
			return nil, err
		}
		if u.IsUnit(n) == 1 {
			return u, nil
		}
	}
	return nil, ErrMaxIterations
}

// Scalar returns a scalar sampled uniformly, up to negligible bias.
func Scalar(rand io.Reader, group curve.Curve) (curve.Scalar, error) {
	buffer := make([]byte, group.SafeScalarBytes())
	if err := readBits(rand, buffer); err != nil {
		return nil, err
	}
	n := new(saferith.Nat).SetBytes(buffer)
	return group.NewScalar().SetNat(n), nil
}

// ScalarUnit returns a non zero scalar.
func ScalarUnit(rand io.Reader, group curve.Curve) (curve.Scalar, error) {
	for i := 0; i < maxIterations; i++ {
		s, err := Scalar(rand, group)
		if err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, ErrMaxIterations
}

// ScalarPointPair returns a non zero scalar x along with x⋅G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point, error) {
	s, err := ScalarUnit(rand, group)
	if err != nil {
		return nil, nil, err
	}
	return s, s.ActOnBase(), nil
}
