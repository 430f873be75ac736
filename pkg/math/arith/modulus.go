package arith

import (
	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation when
// the factorization is known.
//
// When n = p⋅q, xᵉ (mod n) is computed from x^(e mod p-1) (mod p) and
// x^(e mod q-1) (mod q), which for a full size exponent like an RSA private
// exponent costs roughly a quarter of a direct exponentiation.
// The reduction of e is only valid for x coprime to n.
type Modulus struct {
	// represents modulus n
	*saferith.Modulus
	// n = p⋅q
	p, q *saferith.Modulus
	// p - 1 and q - 1, used to reduce exponents
	pMinusOne, qMinusOne *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromN creates a simple wrapper around a given modulus n.
// The modulus is not copied.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{
		Modulus: n,
	}
}

// ModulusFromFactors creates the necessary cached values to accelerate
// exponentiation mod n = p⋅q, where p and q are distinct odd primes.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	one := new(saferith.Nat).SetUint64(1)
	nNat := new(saferith.Nat).Mul(p, q, -1)
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	return &Modulus{
		Modulus:   saferith.ModulusFromNat(nNat),
		p:         pMod,
		q:         qMod,
		pMinusOne: saferith.ModulusFromNat(new(saferith.Nat).Sub(p, one, -1)),
		qMinusOne: saferith.ModulusFromNat(new(saferith.Nat).Sub(q, one, -1)),
		pNat:      new(saferith.Nat).SetNat(p),
		pInv:      new(saferith.Nat).ModInverse(p, qMod),
	}
}

// Exp is equivalent to (saferith.Nat).Exp(x, e, n.Modulus) for x ∈ ℤₙˣ.
// It returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if !n.HasFactorization() {
		return new(saferith.Nat).Exp(x, e, n.Modulus)
	}
	ep := new(saferith.Nat).Mod(e, n.pMinusOne)
	eq := new(saferith.Nat).Mod(e, n.qMinusOne)
	var xp, xq saferith.Nat
	xp.Exp(new(saferith.Nat).Mod(x, n.p), ep, n.p) // x₁ = xᵉ (mod p)
	xq.Exp(new(saferith.Nat).Mod(x, n.q), eq, n.q) // x₂ = xᵉ (mod q)
	// r = x₁ + p ⋅ [p⁻¹ (mod q)] ⋅ [x₂ - x₁] (mod n)
	r := xq.ModSub(&xq, &xp, n.Modulus)
	r.ModMul(r, n.pInv, n.Modulus)
	r.ModMul(r, n.pNat, n.Modulus)
	r.ModAdd(r, &xp, n.Modulus)
	return r
}

// HasFactorization returns true if n was created from its factors.
func (n *Modulus) HasFactorization() bool {
	return n.p != nil && n.q != nil && n.pNat != nil && n.pInv != nil
}

// Factors returns copies of p and q, or nil if the factorization is unknown.
func (n *Modulus) Factors() (p, q *saferith.Nat) {
	if !n.HasFactorization() {
		return nil, nil
	}
	return new(saferith.Nat).SetNat(n.p.Nat()), new(saferith.Nat).SetNat(n.q.Nat())
}
