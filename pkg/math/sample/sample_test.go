package sample

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/pool"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x, err := ModN(rand.Reader, n)
		require.NoError(t, err)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= n")
	}
}

func TestUnitModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x, err := UnitModN(rand.Reader, n)
		require.NoError(t, err)
		assert.Equal(t, saferith.Choice(1), x.IsUnit(n))
	}
}

func TestRandomnessFailure(t *testing.T) {
	n := saferith.ModulusFromUint64(65519)
	_, err := ModN(failingReader{}, n)
	assert.ErrorIs(t, err, ErrRandomness)

	_, err = UnitModN(bytes.NewReader(nil), n)
	assert.ErrorIs(t, err, ErrRandomness)

	_, err = Scalar(failingReader{}, curve.Secp256k1{})
	assert.ErrorIs(t, err, ErrRandomness)

	_, _, err = ScalarPointPair(failingReader{}, curve.Ristretto255{})
	assert.ErrorIs(t, err, ErrRandomness)

	_, _, err = RSA(failingReader{}, nil, 512, 65537, 4)
	assert.ErrorIs(t, err, ErrRandomness)
}

func TestScalarPointPair(t *testing.T) {
	for _, group := range []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}, curve.TestModP()} {
		t.Run(group.Name(), func(t *testing.T) {
			x, X, err := ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)
			assert.False(t, x.IsZero())
			assert.True(t, x.ActOnBase().Equal(X))
		})
	}
}

func TestRSA(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	const e = 65537
	p, q, err := RSA(rand.Reader, pl, 512, e, 64)
	require.NoError(t, err)

	one := big.NewInt(1)
	for _, x := range []*big.Int{p.Big(), q.Big()} {
		assert.Equal(t, 256, x.BitLen())
		assert.True(t, x.ProbablyPrime(20))
		pMinusOne := new(big.Int).Sub(x, one)
		assert.NotZero(t, new(big.Int).Mod(pMinusOne, big.NewInt(e)).Sign())
	}
	assert.NotEqual(t, 0, p.Big().Cmp(q.Big()))
	n := new(big.Int).Mul(p.Big(), q.Big())
	assert.Equal(t, 512, n.BitLen())
}

func TestRSA_OddSizes(t *testing.T) {
	for _, bits := range []int{130, 142, 200} {
		p, q, err := RSA(rand.Reader, nil, bits, 3, 64)
		require.NoError(t, err)
		n := new(big.Int).Mul(p.Big(), q.Big())
		assert.Equal(t, bits, n.BitLen())
		for _, x := range []*big.Int{p.Big(), q.Big()} {
			assert.NotZero(t, new(big.Int).Mod(new(big.Int).Sub(x, big.NewInt(1)), big.NewInt(3)).Sign())
		}
	}
}

func TestRSA_InvalidParameters(t *testing.T) {
	_, _, err := RSA(rand.Reader, nil, 511, 65537, 4)
	assert.ErrorIs(t, err, ErrInvalidPrimeSize)
	_, _, err = RSA(rand.Reader, nil, 512, 4, 4)
	assert.ErrorIs(t, err, ErrInvalidPrimeSize)
}

func TestRSA_Exhausted(t *testing.T) {
	_, _, err := RSA(rand.Reader, nil, 512, 65537, 0)
	assert.ErrorIs(t, err, ErrMaxPrimeIterations)
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultNat *saferith.Nat

func BenchmarkRSA2048(b *testing.B) {
	pl := pool.NewPool(0)
	defer pl.TearDown()
	for i := 0; i < b.N; i++ {
		resultNat, _, _ = RSA(rand.Reader, pl, 2048, 65537, 64)
	}
}

func BenchmarkModN(b *testing.B) {
	b.StopTimer()
	nBytes := make([]byte, 256)
	_, _ = rand.Read(nBytes)
	n := saferith.ModulusFromBytes(nBytes)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		resultNat, _ = ModN(rand.Reader, n)
	}
}
