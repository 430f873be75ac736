package zkdleq

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

type proofWire struct {
	A []byte `cbor:"1,keyasint"`
	B []byte `cbor:"2,keyasint"`
	Z []byte `cbor:"3,keyasint"`
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	if !p.IsValid() {
		return nil, errors.New("zkdleq: marshal invalid proof")
	}
	a, err := p.A.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b, err := p.B.MarshalBinary()
	if err != nil {
		return nil, err
	}
	z, err := p.Z.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(proofWire{A: a, B: b, Z: z})
}

// UnmarshalBinary expects a proof created with Empty.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return errors.New("zkdleq: group must be set, use Empty")
	}
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("zkdleq: %w", err)
	}
	a, err := curve.DecodePoint(p.group, w.A)
	if err != nil {
		return fmt.Errorf("zkdleq: A: %w", err)
	}
	b, err := curve.DecodePoint(p.group, w.B)
	if err != nil {
		return fmt.Errorf("zkdleq: B: %w", err)
	}
	z, err := curve.DecodeScalar(p.group, w.Z)
	if err != nil {
		return fmt.Errorf("zkdleq: Z: %w", err)
	}
	p.Commitment = &Commitment{A: a, B: b}
	p.Z = z
	return nil
}
