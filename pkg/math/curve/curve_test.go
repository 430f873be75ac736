package curve_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

var groups = []curve.Curve{curve.Secp256k1{}, curve.Ristretto255{}, curve.TestModP(), curve.RFC3526ModP3072()}

func nat(x uint64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(x)
}

func TestGroupLaws(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			a, err := sample.Scalar(rand.Reader, group)
			require.NoError(t, err)
			b, err := sample.Scalar(rand.Reader, group)
			require.NoError(t, err)

			A, B := a.ActOnBase(), b.ActOnBase()
			sum := group.NewScalar().Set(a).Add(b)
			assert.True(t, sum.ActOnBase().Equal(A.Add(B)), "(a+b)⋅G = a⋅G + b⋅G")

			diff := group.NewScalar().Set(a).Sub(b)
			assert.True(t, diff.ActOnBase().Equal(A.Sub(B)), "(a-b)⋅G = a⋅G - b⋅G")

			prod := group.NewScalar().Set(a).Mul(b)
			assert.True(t, prod.ActOnBase().Equal(a.Act(B)), "(ab)⋅G = a⋅(b⋅G)")

			assert.True(t, A.Add(A.Negate()).IsIdentity())
			assert.True(t, A.Add(group.NewPoint()).Equal(A))
			assert.True(t, group.NewPoint().IsIdentity())
			assert.False(t, group.NewBasePoint().IsIdentity())
			assert.True(t, group.NewScalar().SetNat(nat(1)).ActOnBase().Equal(group.NewBasePoint()))
			assert.True(t, group.NewScalar().ActOnBase().IsIdentity())
			assert.True(t, a.Act(group.NewPoint()).IsIdentity())

			inv := group.NewScalar().Set(a).Invert()
			assert.True(t, inv.Mul(a).Equal(group.NewScalar().SetNat(nat(1))))

			neg := group.NewScalar().Set(a).Negate()
			assert.True(t, neg.Add(a).IsZero())

			// n⋅G = identity
			orderMinusOne := group.NewScalar().SetNat(nat(1)).Negate()
			assert.True(t, orderMinusOne.ActOnBase().Add(group.NewBasePoint()).IsIdentity())
		})
	}
}

func TestMarshal(t *testing.T) {
	for _, group := range groups {
		t.Run(group.Name(), func(t *testing.T) {
			x, X, err := sample.ScalarPointPair(rand.Reader, group)
			require.NoError(t, err)

			data, err := X.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, group.PointBytes())
			X2, err := curve.DecodePoint(group, data)
			require.NoError(t, err)
			assert.True(t, X.Equal(X2))

			data, err = x.MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, data, group.ScalarBytes())
			x2, err := curve.DecodeScalar(group, data)
			require.NoError(t, err)
			assert.True(t, x.Equal(x2))
			assert.Equal(t, saferith.Choice(1), curve.MakeNat(x).Eq(curve.MakeNat(x2)))

			identity, err := group.NewPoint().MarshalBinary()
			require.NoError(t, err)
			assert.Len(t, identity, group.PointBytes())
			decoded, err := curve.DecodePoint(group, identity)
			require.NoError(t, err)
			assert.True(t, decoded.IsIdentity())

			_, err = curve.DecodePoint(group, data[:len(data)-1])
			assert.Error(t, err)
		})
	}
}

func TestSecp256k1_IdentityEncoding(t *testing.T) {
	data, err := curve.Secp256k1{}.NewPoint().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 33), data)

	bad := make([]byte, 33)
	bad[0] = 0x02
	for i := 1; i < len(bad); i++ {
		bad[i] = 0xFF
	}
	_, err = curve.DecodePoint(curve.Secp256k1{}, bad)
	assert.Error(t, err)
}

func TestModP_SubgroupCheck(t *testing.T) {
	group := curve.TestModP()
	// 7 is a quadratic non residue, of order 2q, so it isn't in the subgroup.
	data := []byte{0x00, 0x07}
	_, err := curve.DecodePoint(group, data)
	assert.Error(t, err)

	// 4 = 2² is the generator
	data = []byte{0x00, 0x04}
	P, err := curve.DecodePoint(group, data)
	require.NoError(t, err)
	assert.True(t, P.Equal(group.NewBasePoint()))

	// 0 and p are rejected
	_, err = curve.DecodePoint(group, []byte{0x00, 0x00})
	assert.Error(t, err)
	_, err = curve.DecodePoint(group, []byte{0x07, 0xF7})
	assert.Error(t, err)
}

func TestNewModP(t *testing.T) {
	p, q := big.NewInt(2039), big.NewInt(1019)
	group, err := curve.NewModP("custom", p, q, big.NewInt(9))
	require.NoError(t, err)
	assert.Equal(t, "custom", group.Name())
	assert.Equal(t, 10, group.ScalarBits())

	for name, params := range map[string][3]*big.Int{
		"composite p":         {big.NewInt(2041), q, big.NewInt(4)},
		"q does not divide":   {big.NewInt(2027), q, big.NewInt(4)},
		"generator order 2q":  {p, q, big.NewInt(7)},
		"generator too large": {p, q, big.NewInt(2039)},
		"generator one":       {p, q, big.NewInt(1)},
	} {
		_, err := curve.NewModP(name, params[0], params[1], params[2])
		assert.ErrorIs(t, err, curve.ErrInvalidModP, name)
	}
	_, err = curve.NewModP("", p, q, big.NewInt(4))
	assert.ErrorIs(t, err, curve.ErrInvalidModP)
}

func TestRFC3526ModP3072(t *testing.T) {
	group := curve.RFC3526ModP3072()
	assert.Equal(t, 3072, group.P().BitLen())
	assert.Equal(t, 3071, group.ScalarBits())
	assert.Equal(t, 384, group.PointBytes())
}

func TestFromName(t *testing.T) {
	for _, group := range groups {
		found, err := curve.FromName(group.Name())
		require.NoError(t, err)
		assert.True(t, curve.Equal(group, found))
	}
	_, err := curve.FromName("p256")
	assert.ErrorIs(t, err, curve.ErrUnknownGroup)
	assert.False(t, curve.Equal(curve.Secp256k1{}, curve.Ristretto255{}))
	assert.False(t, curve.Equal(curve.TestModP(), nil))
}

func TestFromHash(t *testing.T) {
	for _, group := range groups {
		h := make([]byte, 64)
		for i := range h {
			h[i] = 0xFF
		}
		s := curve.FromHash(group, h)
		_, _, lt := curve.MakeNat(s).CmpMod(group.Order())
		assert.Equal(t, saferith.Choice(1), lt)
	}
}
