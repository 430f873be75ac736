package blindrsa

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// Request is sent to the signer. It reveals nothing about the message.
type Request struct {
	// BlindedMessage is m' = H(m)⋅rᵉ (mod n), fixed-width big-endian.
	BlindedMessage []byte
}

// BlindingFactor is kept by the requester until the signature is unblinded.
// It must be used for a single request.
type BlindingFactor struct {
	n *saferith.Modulus
	// r ∈ ℤₙˣ
	r *saferith.Nat
}

type factorWire struct {
	N []byte `cbor:"1,keyasint"`
	R []byte `cbor:"2,keyasint"`
}

// CreateRequest samples a blinding factor r ∈ ℤₙˣ and blinds the encoding of message.
func CreateRequest(rand io.Reader, pk *PublicKey, message []byte) (*Request, *BlindingFactor, error) {
	m, err := EncodeMessage(pk, message)
	if err != nil {
		return nil, nil, err
	}
	r, err := sample.UnitModN(rand, pk.n.Modulus)
	if err != nil {
		return nil, nil, fmt.Errorf("blindrsa.CreateRequest: %w", err)
	}
	// m' = m⋅rᵉ
	blinded := pk.n.Exp(r, pk.e)
	blinded.ModMul(blinded, m, pk.n.Modulus)
	return &Request{BlindedMessage: toBytes(blinded, pk.Size())},
		&BlindingFactor{n: pk.n.Modulus, r: r},
		nil
}

// Sign computes (m')ᵈ (mod n) with CRT, and checks the result before returning it.
func Sign(sk *SecretKey, blinded []byte) ([]byte, error) {
	pk := sk.public
	m, ok := fromBytes(blinded, pk)
	if !ok || m.IsUnit(pk.n.Modulus) != 1 {
		return nil, ErrInvalidBlindedMessage
	}
	s := sk.n.Exp(m, sk.d)
	if pk.n.Exp(s, pk.e).Eq(m) != 1 {
		return nil, ErrSigningFault
	}
	return toBytes(s, pk.Size()), nil
}

// Unblind removes the blinding factor from a blind signature: s = s'⋅r⁻¹ (mod n).
//
// The result is not verified, see Requester for a checked flow.
func Unblind(factor *BlindingFactor, blindSig []byte, pk *PublicKey) ([]byte, error) {
	if factor == nil || factor.r == nil || factor.n == nil {
		return nil, ErrInvalidFactor
	}
	if _, eq, _ := factor.n.Cmp(pk.n.Modulus); eq != 1 {
		return nil, fmt.Errorf("%w: factor was created for another key", ErrInvalidFactor)
	}
	if factor.r.IsUnit(pk.n.Modulus) != 1 {
		return nil, ErrInvalidFactor
	}
	s, ok := fromBytes(blindSig, pk)
	if !ok {
		return nil, ErrInvalidSignature
	}
	rInv := new(saferith.Nat).ModInverse(factor.r, pk.n.Modulus)
	s.ModMul(s, rInv, pk.n.Modulus)
	return toBytes(s, pk.Size()), nil
}

// Verify returns true if sᵉ = H(m) (mod n).
func Verify(pk *PublicKey, message, signature []byte) bool {
	if pk == nil {
		return false
	}
	s, ok := fromBytes(signature, pk)
	if !ok {
		return false
	}
	m, err := EncodeMessage(pk, message)
	if err != nil {
		return false
	}
	return new(saferith.Nat).Exp(s, pk.e, pk.n.Modulus).Eq(m) == 1
}

// MarshalBinary encodes the factor as the CBOR map {1: n, 2: r}, both
// big-endian with the width of n.
//
// The output is secret until the signature is unblinded.
func (f *BlindingFactor) MarshalBinary() ([]byte, error) {
	size := (f.n.BitLen() + 7) / 8
	return cbor.Marshal(factorWire{
		N: f.n.Bytes(),
		R: toBytes(f.r, size),
	})
}

func (f *BlindingFactor) UnmarshalBinary(data []byte) error {
	var w factorWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, err)
	}
	if len(w.N) == 0 || len(w.R) != len(w.N) {
		return ErrInvalidFactor
	}
	n := saferith.ModulusFromBytes(w.N)
	if n.BitLen() < params.MinBitsRSA {
		return ErrInvalidFactor
	}
	r := new(saferith.Nat).SetBytes(w.R)
	if _, _, lt := r.CmpMod(n); lt != 1 || r.IsUnit(n) != 1 {
		return ErrInvalidFactor
	}
	f.n, f.r = n, r
	return nil
}

// toBytes encodes x big-endian on exactly size bytes.
func toBytes(x *saferith.Nat, size int) []byte {
	return x.FillBytes(make([]byte, size))
}

// fromBytes decodes a fixed-width integer in [1, n-1].
func fromBytes(data []byte, pk *PublicKey) (*saferith.Nat, bool) {
	if len(data) != pk.Size() {
		return nil, false
	}
	x := new(saferith.Nat).SetBytes(data)
	if x.EqZero() == 1 {
		return nil, false
	}
	if _, _, lt := x.CmpMod(pk.n.Modulus); lt != 1 {
		return nil, false
	}
	return x, true
}
