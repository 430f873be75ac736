package zksch

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/internal/hash"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// Randomness = a ← ℤₚ.
type Randomness struct {
	a          curve.Scalar
	commitment Commitment
}

// Commitment = randomness⋅G.
type Commitment struct {
	C curve.Point
}

// Response = randomness + H(..., commitment, public)⋅secret (mod p).
type Response struct {
	group curve.Curve
	Z     curve.Scalar
}

type Proof struct {
	C Commitment
	Z Response
}

// NewProof generates a Schnorr proof of knowledge of exponent for public, using the Fiat-Shamir transform.
func NewProof(rand io.Reader, hash *hash.Hash, public curve.Point, private curve.Scalar) (*Proof, error) {
	a, err := NewRandomness(rand, public.Curve())
	if err != nil {
		return nil, err
	}
	z, err := a.Prove(hash, public, private)
	if err != nil {
		return nil, err
	}
	return &Proof{
		C: *a.Commitment(),
		Z: *z,
	}, nil
}

// NewRandomness creates a new a ∈ ℤₚ and the corresponding commitment C = a⋅G.
// This can be used to run the proof in a non-interactive way.
func NewRandomness(rand io.Reader, group curve.Curve) (*Randomness, error) {
	a, C, err := sample.ScalarPointPair(rand, group)
	if err != nil {
		return nil, err
	}
	return &Randomness{
		a:          a,
		commitment: Commitment{C: C},
	}, nil
}

func challenge(hash *hash.Hash, group curve.Curve, commitment *Commitment, public curve.Point) (curve.Scalar, error) {
	if err := hash.WriteAny(commitment.C, public); err != nil {
		return nil, err
	}
	return sample.Scalar(hash.Digest(), group)
}

// Prove creates a Response = Randomness + H(..., Commitment, public)⋅secret (mod p).
func (r *Randomness) Prove(hash *hash.Hash, public curve.Point, secret curve.Scalar) (*Response, error) {
	if public.IsIdentity() || secret.IsZero() {
		return nil, errors.New("zksch: public and secret must be non trivial")
	}
	group := secret.Curve()
	e, err := challenge(hash, group, &r.commitment, public)
	if err != nil {
		return nil, err
	}
	es := e.Mul(secret)
	z := es.Add(r.a)
	return &Response{group: group, Z: z}, nil
}

// Commitment returns the commitment C = a⋅G for the randomness a.
func (r *Randomness) Commitment() *Commitment {
	return &r.commitment
}

// Verify checks that Response⋅G = Commitment + H(..., Commitment, public)⋅Public.
func (z *Response) Verify(hash *hash.Hash, public curve.Point, commitment *Commitment) bool {
	if z == nil || !z.IsValid() || commitment == nil || !commitment.IsValid() || public == nil || public.IsIdentity() {
		return false
	}

	e, err := challenge(hash, z.group, commitment, public)
	if err != nil {
		return false
	}

	lhs := z.Z.ActOnBase()
	rhs := e.Act(public).Add(commitment.C)

	return lhs.Equal(rhs)
}

// Verify checks a Schnorr proof created by NewProof.
func (p *Proof) Verify(hash *hash.Hash, public curve.Point) bool {
	if p == nil {
		return false
	}
	return p.Z.Verify(hash, public, &p.C)
}

// IsValid returns true if the commitment is not the identity.
func (c *Commitment) IsValid() bool {
	return c.C != nil && !c.C.IsIdentity()
}

// IsValid returns true if the response is not zero.
func (z *Response) IsValid() bool {
	return z.group != nil && z.Z != nil && !z.Z.IsZero()
}

// EmptyProof returns a proof to be unmarshalled into, for group.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{
		C: Commitment{C: group.NewPoint()},
		Z: Response{group: group, Z: group.NewScalar()},
	}
}

type proofWire struct {
	C []byte `cbor:"1,keyasint"`
	Z []byte `cbor:"2,keyasint"`
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	if !p.C.IsValid() || !p.Z.IsValid() {
		return nil, errors.New("zksch: marshal invalid proof")
	}
	c, err := p.C.C.MarshalBinary()
	if err != nil {
		return nil, err
	}
	z, err := p.Z.Z.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(proofWire{C: c, Z: z})
}

// UnmarshalBinary expects a proof created with EmptyProof.
func (p *Proof) UnmarshalBinary(data []byte) error {
	group := p.Z.group
	if group == nil {
		return errors.New("zksch: group must be set, use EmptyProof")
	}
	var w proofWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("zksch: %w", err)
	}
	c, err := curve.DecodePoint(group, w.C)
	if err != nil {
		return fmt.Errorf("zksch: C: %w", err)
	}
	z, err := curve.DecodeScalar(group, w.Z)
	if err != nil {
		return fmt.Errorf("zksch: Z: %w", err)
	}
	p.C.C, p.Z.Z = c, z
	return nil
}
