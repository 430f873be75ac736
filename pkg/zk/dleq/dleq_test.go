package zkdleq

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
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

func TestDLEQPass(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			_, H, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)
			x, X, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)
			public := Public{H: H, X: X, Y: x.Act(H)}

			proof, err := NewProof(rand.Reader, group, hash.New(), public, Private{X: x})
			require.NoError(t, err)
			assert.True(t, proof.Verify(hash.New(), public), "failed passing test")

			data, err := proof.MarshalBinary()
			require.NoError(t, err)
			decoded := Empty(group)
			require.NoError(t, decoded.UnmarshalBinary(data))
			assert.True(t, decoded.Verify(hash.New(), public))
		})
	}
}

func TestDLEQFail(t *testing.T) {
	for _, group := range soundGroups {
		t.Run(group.Name(), func(t *testing.T) {
			_, H, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)
			x, X, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)
			y := group.NewScalar().Set(x).Add(group.NewScalar().SetNat(new(saferith.Nat).SetUint64(1)))
			public := Public{H: H, X: X, Y: y.Act(H)}

			proof, err := NewProof(rand.Reader, group, hash.New(), public, Private{X: x})
			require.NoError(t, err)
			assert.False(t, proof.Verify(hash.New(), public), "proof for different logs should fail")

			assert.False(t, proof.Verify(hash.New(), Public{X: X, Y: y.Act(H)}))
		})
	}
}
