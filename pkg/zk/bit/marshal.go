package zkbit

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

// proofWire lists, in order, A₀, A₁, B₀, B₁ as points and E₀, E₁, Z₀, Z₁ as scalars.
type proofWire struct {
	Points  [][]byte `cbor:"1,keyasint"`
	Scalars [][]byte `cbor:"2,keyasint"`
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	if !p.IsValid() {
		return nil, errors.New("zkbit: marshal invalid proof")
	}
	points, err := curve.EncodePoints([]curve.Point{p.A[0], p.A[1], p.B[0], p.B[1]})
	if err != nil {
		return nil, err
	}
	scalars, err := curve.EncodeScalars([]curve.Scalar{p.E[0], p.E[1], p.Z[0], p.Z[1]})
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(proofWire{Points: points, Scalars: scalars})
}

// UnmarshalBinary expects a proof created with Empty.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return errors.New("zkbit: group must be set, use Empty")
	}
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("zkbit: %w", err)
	}
	if len(w.Points) != 4 || len(w.Scalars) != 4 {
		return errors.New("zkbit: wrong number of elements")
	}
	points, err := curve.DecodePoints(p.group, w.Points)
	if err != nil {
		return fmt.Errorf("zkbit: %w", err)
	}
	scalars, err := curve.DecodeScalars(p.group, w.Scalars)
	if err != nil {
		return fmt.Errorf("zkbit: %w", err)
	}
	p.Commitment = &Commitment{
		A: [2]curve.Point{points[0], points[1]},
		B: [2]curve.Point{points[2], points[3]},
	}
	p.E = [2]curve.Scalar{scalars[0], scalars[1]}
	p.Z = [2]curve.Scalar{scalars[2], scalars[3]}
	return nil
}
