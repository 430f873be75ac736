package arith

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

func sampleFactors(t testing.TB, bits int) (*saferith.Nat, *saferith.Nat) {
	p, q, err := sample.RSA(rand.Reader, nil, bits, 65537, 64)
	require.NoError(t, err)
	return p, q
}

func TestModulus_Exp(t *testing.T) {
	p, q := sampleFactors(t, 512)

	nFast := ModulusFromFactors(p, q)
	nSlow := ModulusFromN(nFast.Modulus)
	assert.True(t, nFast.HasFactorization())
	assert.False(t, nSlow.HasFactorization())

	for i := 0; i < 10; i++ {
		x, err := sample.UnitModN(rand.Reader, nFast.Modulus)
		require.NoError(t, err)
		e, err := sample.ModN(rand.Reader, nFast.Modulus)
		require.NoError(t, err)

		yExpected := new(saferith.Nat).Exp(x, e, nFast.Modulus)
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(nFast.Exp(x, e)), "exponentiation with acceleration should give the same result")
		assert.Equal(t, saferith.Choice(1), yExpected.Eq(nSlow.Exp(x, e)), "exponentiation without acceleration should give the same result")
	}
}

func TestModulus_Factors(t *testing.T) {
	p, q := sampleFactors(t, 256)
	n := ModulusFromFactors(p, q)
	pOut, qOut := n.Factors()
	assert.Equal(t, saferith.Choice(1), pOut.Eq(p))
	assert.Equal(t, saferith.Choice(1), qOut.Eq(q))

	pNil, qNil := ModulusFromN(n.Modulus).Factors()
	assert.Nil(t, pNil)
	assert.Nil(t, qNil)
}

func TestCarmichael(t *testing.T) {
	// λ(7⋅11) = lcm(6, 10) = 30
	assert.Equal(t, int64(30), Carmichael(big.NewInt(7), big.NewInt(11)).Int64())
	assert.True(t, IsCoprime(big.NewInt(65537), big.NewInt(30)))
	assert.False(t, IsCoprime(big.NewInt(3), big.NewInt(30)))
}

func BenchmarkModulus_Exp(b *testing.B) {
	p, q := sampleFactors(b, 2048)
	nFast := ModulusFromFactors(p, q)
	nSlow := ModulusFromN(nFast.Modulus)
	x, _ := sample.UnitModN(rand.Reader, nFast.Modulus)
	e, _ := sample.ModN(rand.Reader, nFast.Modulus)

	b.Run("crt", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			nFast.Exp(x, e)
		}
	})
	b.Run("plain", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			nSlow.Exp(x, e)
		}
	})
}
