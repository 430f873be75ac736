package shamir

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

type shareWire struct {
	Group  string   `cbor:"1,keyasint"`
	Index  uint32   `cbor:"2,keyasint"`
	Length int      `cbor:"3,keyasint"`
	Values [][]byte `cbor:"4,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// MarshalBinary encodes the share as the CBOR map {1: group, 2: index, 3: length, 4: values}.
func (s *Share) MarshalBinary() ([]byte, error) {
	values, err := curve.EncodeScalars(s.Values)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(shareWire{
		Group:  s.group.Name(),
		Index:  s.Index,
		Length: s.Length,
		Values: values,
	})
}

func (s *Share) UnmarshalBinary(data []byte) error {
	var w shareWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}
	group, err := curve.FromName(w.Group)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}
	if w.Index == 0 || w.Length < 1 || len(w.Values) != (w.Length+chunkSize(group)-1)/chunkSize(group) {
		return ErrInvalidShare
	}
	values, err := curve.DecodeScalars(group, w.Values)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}
	s.group, s.Index, s.Length, s.Values = group, w.Index, w.Length, values
	return nil
}
