package zkbit

import (
	"errors"
	"io"

	"github.com/taurusgroup/vote-primitives/internal/hash"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// ErrNotABit is returned when the private plaintext is neither 0 nor 1.
var ErrNotABit = errors.New("zkbit: plaintext is not a bit")

// Public is an ElGamal ciphertext (L, M) = (k⋅G, b⋅G + k⋅Y) for the key Y.
type Public struct {
	// Key = Y = y⋅G
	Key curve.Point
	// L = k⋅G
	L curve.Point
	// M = b⋅G + k⋅Y
	M curve.Point
}

type Private struct {
	// K = k, the encryption nonce
	K curve.Scalar
	// Bit = b ∈ {0, 1}
	Bit uint8
}

// Commitment holds, for each j ∈ {0, 1}, the commitment of the Chaum-Pedersen
// proof that (L, M - j⋅G) = (k⋅G, k⋅Y).
type Commitment struct {
	// A[j] = aⱼ⋅G
	A [2]curve.Point
	// B[j] = aⱼ⋅Y
	B [2]curve.Point
}

type Proof struct {
	group curve.Curve
	*Commitment
	// E[0] + E[1] = e, the challenge
	E [2]curve.Scalar
	// Z[j] = aⱼ + E[j]⋅k
	Z [2]curve.Scalar
}

func (p *Proof) IsValid() bool {
	if p == nil || p.Commitment == nil {
		return false
	}
	for j := 0; j < 2; j++ {
		if p.A[j] == nil || p.B[j] == nil || p.E[j] == nil || p.Z[j] == nil {
			return false
		}
	}
	return true
}

func (public Public) isValid() bool {
	return public.Key != nil && public.L != nil && public.M != nil && !public.Key.IsIdentity()
}

// shifted returns M - j⋅G.
func (public Public) shifted(group curve.Curve, j int) curve.Point {
	if j == 0 {
		return public.M
	}
	return public.M.Sub(group.NewBasePoint())
}

// NewProof generates a disjunctive Chaum-Pedersen proof that (L, M) encrypts 0 or 1.
//
// The branch matching the actual bit is proven honestly, the other one is simulated.
func NewProof(rand io.Reader, group curve.Curve, hash *hash.Hash, public Public, private Private) (*Proof, error) {
	if private.Bit > 1 {
		return nil, ErrNotABit
	}
	honest := int(private.Bit)
	simulated := 1 - honest

	a, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	eSimulated, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	zSimulated, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}

	commitment := &Commitment{}
	commitment.A[honest] = a.ActOnBase()
	commitment.B[honest] = a.Act(public.Key)
	// A' = z'⋅G - e'⋅L, B' = z'⋅Y - e'⋅(M - j'⋅G)
	commitment.A[simulated] = zSimulated.ActOnBase().Sub(eSimulated.Act(public.L))
	commitment.B[simulated] = zSimulated.Act(public.Key).Sub(eSimulated.Act(public.shifted(group, simulated)))

	e, err := challenge(hash, group, public, commitment)
	if err != nil {
		return nil, err
	}

	eHonest := e.Sub(eSimulated)
	zHonest := group.NewScalar().Set(eHonest).Mul(private.K).Add(a)

	proof := &Proof{
		group:      group,
		Commitment: commitment,
	}
	proof.E[honest], proof.E[simulated] = eHonest, eSimulated
	proof.Z[honest], proof.Z[simulated] = zHonest, zSimulated
	return proof, nil
}

func (p *Proof) Verify(hash *hash.Hash, public Public) bool {
	if !p.IsValid() || !public.isValid() {
		return false
	}

	e, err := challenge(hash, p.group, public, p.Commitment)
	if err != nil {
		return false
	}
	if !p.group.NewScalar().Set(p.E[0]).Add(p.E[1]).Equal(e) {
		return false
	}

	for j := 0; j < 2; j++ {
		{
			lhs := p.Z[j].ActOnBase()               // lhs = zⱼ⋅G
			rhs := p.E[j].Act(public.L).Add(p.A[j]) // rhs = Aⱼ + eⱼ⋅L
			if !lhs.Equal(rhs) {
				return false
			}
		}
		{
			// zⱼ⋅Y = Bⱼ + eⱼ⋅(M - j⋅G)
			lhs := p.Z[j].Act(public.Key)
			rhs := p.E[j].Act(public.shifted(p.group, j)).Add(p.B[j])
			if !lhs.Equal(rhs) {
				return false
			}
		}
	}
	return true
}

func challenge(hash *hash.Hash, group curve.Curve, public Public, commitment *Commitment) (curve.Scalar, error) {
	err := hash.WriteAny(public.Key, public.L, public.M,
		commitment.A[0], commitment.B[0], commitment.A[1], commitment.B[1])
	if err != nil {
		return nil, err
	}
	return sample.Scalar(hash.Digest(), group)
}

// Empty returns a proof to be unmarshalled into, for group.
func Empty(group curve.Curve) *Proof {
	return &Proof{
		group: group,
		Commitment: &Commitment{
			A: [2]curve.Point{group.NewPoint(), group.NewPoint()},
			B: [2]curve.Point{group.NewPoint(), group.NewPoint()},
		},
		E: [2]curve.Scalar{group.NewScalar(), group.NewScalar()},
		Z: [2]curve.Scalar{group.NewScalar(), group.NewScalar()},
	}
}
