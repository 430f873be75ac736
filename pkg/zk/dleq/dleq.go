package zkdleq

import (
	"io"

	"github.com/taurusgroup/vote-primitives/internal/hash"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// Public is the statement log_G(X) = log_H(Y).
type Public struct {
	// G and H are the two bases. A nil G means the group generator.
	G, H curve.Point
	// X = x⋅G
	X curve.Point
	// Y = x⋅H
	Y curve.Point
}

type Private struct {
	// X = x
	X curve.Scalar
}

type Commitment struct {
	// A = a⋅G
	A curve.Point
	// B = a⋅H
	B curve.Point
}

type Proof struct {
	group curve.Curve
	*Commitment
	// Z = a + e⋅x (mod q)
	Z curve.Scalar
}

func (p *Proof) IsValid() bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	if p.A == nil || p.B == nil || p.Z == nil {
		return false
	}
	if p.A.IsIdentity() || p.B.IsIdentity() {
		return false
	}
	return true
}

func (public Public) base(group curve.Curve) curve.Point {
	if public.G == nil {
		return group.NewBasePoint()
	}
	return public.G
}

func (public Public) isValid() bool {
	return public.H != nil && public.X != nil && public.Y != nil
}

// NewProof generates a Chaum-Pedersen proof that the prover knows x such that
// X = x⋅G and Y = x⋅H.
func NewProof(rand io.Reader, group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	a, err := sample.ScalarUnit(rand, group)
	if err != nil {
		return nil, err
	}
	commitment := &Commitment{
		A: a.Act(public.base(group)),
		B: a.Act(public.H),
	}

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, err
	}

	z := group.NewScalar().Set(e).Mul(private.X).Add(a)

	return &Proof{
		group:      group,
		Commitment: commitment,
		Z:          z,
	}, nil
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid() || !public.isValid() {
		return false
	}

	e, err := challenge(hash, p.group, public, p.Commitment)
	if err != nil {
		return false
	}

	{
		lhs := p.Z.Act(public.base(p.group)) // lhs = z⋅G
		rhs := e.Act(public.X).Add(p.A)      // rhs = A + e⋅X
		if !lhs.Equal(rhs) {
			return false
		}
	}

	{
		lhs := p.Z.Act(public.H)        // lhs = z⋅H
		rhs := e.Act(public.Y).Add(p.B) // rhs = B + e⋅Y
		if !lhs.Equal(rhs) {
			return false
		}
	}

	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (curve.Scalar, error) {
	if err := hash.WriteAny(public.base(group), public.H, public.X, public.Y, commitment.A, commitment.B); err != nil {
		return nil, err
	}
	return sample.Scalar(hash.Digest(), group)
}

// Empty returns a proof to be unmarshalled into, for group.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		Commitment: &Commitment{
			A: group.NewPoint(),
			B: group.NewPoint(),
		},
		Z: group.NewScalar(),
	}
}
