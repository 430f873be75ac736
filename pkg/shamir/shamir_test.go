package shamir

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

var groups = []curve.Curve{curve.Ristretto255{}, curve.Secp256k1{}, curve.TestModP()}

func TestSplitCombine(t *testing.T) {
	secret := make([]byte, 100)
	_, _ = rand.Read(secret)
	secret[0] = 0

	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			for _, tc := range []struct{ threshold, n int }{{1, 1}, {2, 3}, {3, 5}, {5, 5}} {
				shares, err := Split(rand.Reader, group, secret, tc.threshold, tc.n)
				require.NoError(t, err)
				require.Len(t, shares, tc.n)

				recovered, err := Combine(group, shares, tc.threshold)
				require.NoError(t, err)
				assert.Equal(t, secret, recovered)

				// any subset of size threshold works
				reversed := make([]*Share, tc.n)
				for i, s := range shares {
					reversed[tc.n-1-i] = s
				}
				recovered, err = Combine(group, reversed, tc.threshold)
				require.NoError(t, err)
				assert.Equal(t, secret, recovered)

				_, err = Combine(group, shares[:tc.threshold-1], tc.threshold)
				assert.ErrorIs(t, err, ErrNotEnoughShares)
			}
		})
	}
}

func TestCombine_TooFewShares(t *testing.T) {
	group := curve.Ristretto255{}
	secret := bytes.Repeat([]byte("secret key "), 4)
	shares, err := Split(rand.Reader, group, secret, 3, 5)
	require.NoError(t, err)

	// Lying about the threshold yields garbage, not the secret.
	recovered, err := Combine(group, shares[:2], 2)
	if err == nil {
		assert.NotEqual(t, secret, recovered)
	} else {
		assert.ErrorIs(t, err, ErrInconsistentShares)
	}
}

func TestCombine_Inconsistent(t *testing.T) {
	group := curve.Secp256k1{}
	shares, err := Split(rand.Reader, group, []byte("secret"), 2, 3)
	require.NoError(t, err)

	_, err = Combine(group, []*Share{shares[0], shares[0]}, 2)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	other, err := Split(rand.Reader, group, []byte("a longer secret, two chunks at least...."), 2, 3)
	require.NoError(t, err)
	_, err = Combine(group, []*Share{shares[0], other[1]}, 2)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	_, err = Combine(curve.Ristretto255{}, shares, 2)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	_, err = Combine(group, []*Share{shares[0], nil}, 2)
	assert.ErrorIs(t, err, ErrInconsistentShares)
}

func TestSplit_Invalid(t *testing.T) {
	group := curve.Ristretto255{}
	for _, tc := range []struct{ threshold, n int }{{0, 3}, {4, 3}, {1, 0}, {2, MaxShares + 1}} {
		_, err := Split(rand.Reader, group, []byte("s"), tc.threshold, tc.n)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	}
	_, err := Split(rand.Reader, curve.TestModP(), []byte("s"), 2, 600)
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = Split(rand.Reader, group, nil, 2, 3)
	assert.ErrorIs(t, err, ErrInvalidSecret)

	_, err = Split(bytes.NewReader(nil), group, []byte("s"), 2, 3)
	assert.ErrorIs(t, err, sample.ErrRandomness)
}

func TestSplitVerifiable(t *testing.T) {
	group := curve.Ristretto255{}
	secret := bytes.Repeat([]byte{0xab}, 70)
	shares, commitments, err := SplitVerifiable(rand.Reader, group, secret, 3, 4)
	require.NoError(t, err)
	require.Len(t, commitments, 3)

	for _, share := range shares {
		assert.True(t, share.Verify(commitments))
	}

	forged := *shares[0]
	forged.Values = append([]curve.Scalar(nil), shares[0].Values...)
	forged.Values[1] = group.NewScalar().Set(forged.Values[1]).Add(group.NewScalar().SetNat(curve.MakeNat(forged.Values[0])))
	assert.False(t, forged.Verify(commitments))
	assert.False(t, shares[0].Verify(commitments[:2]))

	moved := *shares[0]
	moved.Index = shares[1].Index
	assert.False(t, moved.Verify(commitments))
}

func TestShare_Marshal(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			secret := []byte("tally authority secret key")
			shares, err := Split(rand.Reader, group, secret, 2, 3)
			require.NoError(t, err)

			decoded := make([]*Share, len(shares))
			for i, share := range shares {
				data, err := share.MarshalBinary()
				require.NoError(t, err)
				decoded[i] = new(Share)
				require.NoError(t, decoded[i].UnmarshalBinary(data))
				assert.Equal(t, share.Index, decoded[i].Index)
				assert.Equal(t, group.Name(), decoded[i].Group().Name())
			}
			recovered, err := Combine(group, decoded[1:], 2)
			require.NoError(t, err)
			assert.Equal(t, secret, recovered)
		})
	}

	var s Share
	assert.ErrorIs(t, s.UnmarshalBinary([]byte{0x01}), ErrInvalidShare)
	bad, err := encMode.Marshal(shareWire{Group: "ristretto255", Index: 0, Length: 1, Values: [][]byte{make([]byte, 32)}})
	require.NoError(t, err)
	assert.ErrorIs(t, s.UnmarshalBinary(bad), ErrInvalidShare)
	bad, err = encMode.Marshal(shareWire{Group: "p256", Index: 1, Length: 1, Values: [][]byte{make([]byte, 32)}})
	require.NoError(t, err)
	assert.ErrorIs(t, s.UnmarshalBinary(bad), ErrInvalidShare)
}
