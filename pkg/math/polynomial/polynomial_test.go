package polynomial

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

var groups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}, curve.TestModP()}

func TestPolynomial_Constant(t *testing.T) {
	for _, group := range groups {
		deg := 10
		secret, err := sample.Scalar(rand.Reader, group)
		require.NoError(t, err)
		poly, err := NewPolynomial(rand.Reader, group, deg, secret)
		require.NoError(t, err)
		assert.True(t, poly.Constant().Equal(secret))
		assert.Equal(t, uint32(deg), poly.Degree())
	}
}

func TestPolynomial_Evaluate(t *testing.T) {
	group := curve.Secp256k1{}
	polynomial := &Polynomial{group, []curve.Scalar{
		IndexScalar(group, 1),
		group.NewScalar(),
		IndexScalar(group, 1),
	}}

	for index := 0; index < 100; index++ {
		x := mrand.Uint32() | 1
		result := big.NewInt(int64(x))
		result.Mul(result, result)
		result.Add(result, big.NewInt(1))
		computedResult, err := polynomial.Evaluate(IndexScalar(group, x))
		require.NoError(t, err)
		expectedResult := group.NewScalar().SetNat(new(saferith.Nat).SetBig(result, result.BitLen()))
		assert.True(t, expectedResult.Equal(computedResult))
	}

	_, err := polynomial.Evaluate(group.NewScalar())
	assert.ErrorIs(t, err, ErrZeroIndex)
}

func TestExponent_Evaluate(t *testing.T) {
	for _, group := range groups {
		poly, err := NewPolynomial(rand.Reader, group, 4, nil)
		require.NoError(t, err)
		polyExp := NewPolynomialExponent(poly)
		assert.True(t, polyExp.Constant().IsIdentity())

		for i := uint32(1); i < 20; i++ {
			x := IndexScalar(group, i)
			value, err := poly.Evaluate(x)
			require.NoError(t, err)
			assert.True(t, value.ActOnBase().Equal(polyExp.Evaluate(x)), "group %s index %d", group.Name(), i)
		}
	}
}

func TestExponent_Marshal(t *testing.T) {
	for _, group := range groups {
		poly, err := NewPolynomial(rand.Reader, group, 3, nil)
		require.NoError(t, err)
		polyExp := NewPolynomialExponent(poly)
		data, err := polyExp.MarshalBinary()
		require.NoError(t, err)

		decoded := EmptyExponent(group)
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.True(t, polyExp.Equal(decoded))
		assert.Equal(t, 3, decoded.Degree())
	}
}
