package polynomial

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

func TestLagrange(t *testing.T) {
	for _, group := range groups {
		N := uint32(10)
		allIDs := make([]uint32, 0, N)
		for i := uint32(1); i <= N; i++ {
			allIDs = append(allIDs, 3*i+1)
		}
		coefsEven := Lagrange(group, allIDs)
		coefsOdd := Lagrange(group, allIDs[:N-1])
		sumEven := group.NewScalar()
		sumOdd := group.NewScalar()
		for _, c := range coefsEven {
			sumEven.Add(c)
		}
		for _, c := range coefsOdd {
			sumOdd.Add(c)
		}
		one := IndexScalar(group, 1)
		assert.True(t, sumEven.Equal(one))
		assert.True(t, sumOdd.Equal(one))
	}
}

func TestLagrange_Interpolation(t *testing.T) {
	for _, group := range groups {
		secret, err := sample.Scalar(rand.Reader, group)
		require.NoError(t, err)
		poly, err := NewPolynomial(rand.Reader, group, 2, secret)
		require.NoError(t, err)

		domain := []uint32{2, 5, 7}
		coefficients := Lagrange(group, domain)
		result := group.NewScalar()
		for _, id := range domain {
			share, err := poly.Evaluate(IndexScalar(group, id))
			require.NoError(t, err)
			result.Add(share.Mul(coefficients[id]))
		}
		assert.True(t, result.Equal(secret))
	}
}
