package zkbit

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/internal/hash"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

var groups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}, curve.TestModP()}

// soundGroups have a large enough order for a cheating prover to fail with
// overwhelming probability.
var soundGroups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}}

func encrypt(t *testing.T, group curve.Curve, Y curve.Point, m uint64) (Public, curve.Scalar) {
	k, L, err := sample.ScalarPointPair(rand.Reader, group)
	require.NoError(t, err)
	M := k.Act(Y)
	for i := uint64(0); i < m; i++ {
		M = M.Add(group.NewBasePoint())
	}
	return Public{Key: Y, L: L, M: M}, k
}

func TestBit(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			_, Y, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)

			for _, b := range []uint8{0, 1} {
				public, k := encrypt(t, group, Y, uint64(b))
				proof, err := NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: b})
				require.NoError(t, err)
				assert.True(t, proof.Verify(hash.New(), public), "proof for %d should verify", b)

				data, err := proof.MarshalBinary()
				require.NoError(t, err)
				decoded := Empty(group)
				require.NoError(t, decoded.UnmarshalBinary(data))
				assert.True(t, decoded.Verify(hash.New(), public), "decoded proof for %d should verify", b)

				if group.ScalarBits() > 128 {
					// a different transcript gives a different challenge
					assert.False(t, proof.Verify(hash.NewWithDomain("other"), public))
				}
			}
		})
	}
}

func TestBitFail(t *testing.T) {
	for _, group := range soundGroups {
		t.Run(group.Name(), func(t *testing.T) {
			_, Y, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)

			// a proof claiming 1 for an encryption of 2
			public, k := encrypt(t, group, Y, 2)
			proof, err := NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: 1})
			require.NoError(t, err)
			assert.False(t, proof.Verify(hash.New(), public))

			// a valid proof doesn't transfer to another ciphertext
			public, k = encrypt(t, group, Y, 1)
			proof, err = NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: 1})
			require.NoError(t, err)
			other, _ := encrypt(t, group, Y, 1)
			assert.False(t, proof.Verify(hash.New(), other))

			_, err = NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: 2})
			assert.ErrorIs(t, err, ErrNotABit)

			var nilProof *Proof
			assert.False(t, nilProof.Verify(hash.New(), public))
			assert.False(t, proof.Verify(hash.New(), Public{L: public.L, M: public.M}))
		})
	}
}

func BenchmarkBit(b *testing.B) {
	group := curve.Ristretto255{}
	_, Y, _ := sample.ScalarPointPair(rand.Reader, group)
	k, L, _ := sample.ScalarPointPair(rand.Reader, group)
	public := Public{Key: Y, L: L, M: k.Act(Y).Add(group.NewBasePoint())}
	proof, _ := NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: 1})

	b.Run("prove", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = NewProof(rand.Reader, group, hash.New(), public, Private{K: k, Bit: 1})
		}
	})
	b.Run("verify", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			proof.Verify(hash.New(), public)
		}
	})
}
