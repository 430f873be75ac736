package polynomial

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

// IndexScalar returns the scalar associated to a non zero share index.
func IndexScalar(group curve.Curve, index uint32) curve.Scalar {
	return group.NewScalar().SetNat(new(saferith.Nat).SetUint64(uint64(index)))
}

// Lagrange returns the Lagrange coefficients at 0 for all indices in the interpolation domain.
//
// The indices must be distinct and non zero modulo the group order.
func Lagrange(group curve.Curve, interpolationDomain []uint32) map[uint32]curve.Scalar {
	// numerator = x₀ * … * xₖ
	scalars, numerator := getScalarsAndNumerator(group, interpolationDomain)

	coefficients := make(map[uint32]curve.Scalar, len(interpolationDomain))
	for _, j := range interpolationDomain {
		coefficients[j] = lagrange(group, scalars, numerator, j)
	}
	return coefficients
}

// getScalarsAndNumerator returns the Scalars associated to the list of indices.
func getScalarsAndNumerator(group curve.Curve, interpolationDomain []uint32) (map[uint32]curve.Scalar, curve.Scalar) {
	// numerator = x₀ * … * xₖ
	numerator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	scalars := make(map[uint32]curve.Scalar, len(interpolationDomain))
	for _, id := range interpolationDomain {
		xi := IndexScalar(group, id)
		scalars[id] = xi
		numerator.Mul(xi)
	}
	return scalars, numerator
}

// lagrange returns the Lagrange coefficient lⱼ(0), for j in the interpolation domain.
// The numerator is provided beforehand for efficiency reasons.
//
// The following formulas are taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
//	                     x₀ ⋅⋅⋅ xₖ
//	lⱼ(0) = --------------------------------------------------
//	        xⱼ⋅(x₀ - xⱼ)⋅⋅⋅(xⱼ₋₁ - xⱼ)⋅(xⱼ₊₁ - xⱼ)⋅⋅⋅(xₖ - xⱼ).
func lagrange(group curve.Curve, interpolationDomain map[uint32]curve.Scalar, numerator curve.Scalar, j uint32) curve.Scalar {
	xJ := interpolationDomain[j]
	tmp := group.NewScalar()

	denominator := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1))
	for i, xI := range interpolationDomain {
		if i == j {
			// lⱼ *= xⱼ
			denominator.Mul(xJ)
			continue
		}
		// tmp = xᵢ - xⱼ
		tmp.Set(xI).Sub(xJ)
		// lⱼ *= xᵢ - xⱼ
		denominator.Mul(tmp)
	}

	// lⱼ = numerator/denominator
	lJ := denominator.Invert()
	lJ.Mul(numerator)
	return lJ
}
