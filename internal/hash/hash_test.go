package hash

import (
	"bytes"
	"io"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digest(t *testing.T, h *Hash) []byte {
	out := make([]byte, 64)
	_, err := io.ReadFull(h.Digest(), out)
	require.NoError(t, err)
	return out
}

func TestHash_WriteAny(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return err
			}
		}
		return nil
	}
	b := big.NewInt(35)
	n := new(saferith.Nat).SetBig(b, b.BitLen())
	m := saferith.ModulusFromBytes(b.Bytes())

	assert.NoError(t, testFunc(b, n, m))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc("ballot"))
	assert.NoError(t, testFunc(&BytesWithDomain{TheDomain: "test", Bytes: []byte{1}}))

	var i *big.Int
	assert.Error(t, testFunc(i))
	var nat *saferith.Nat
	assert.Error(t, testFunc(nat))
}

func TestHash_WriteAny_Collision(t *testing.T) {
	testFunc := func(vs ...interface{}) []byte {
		h := New()
		require.NoError(t, h.WriteAny(vs...))
		return digest(t, h)
	}

	h1 := testFunc([]byte("ab"), []byte("c"))
	h2 := testFunc([]byte("a"), []byte("bc"))
	assert.NotEqual(t, h1, h2)

	h3 := testFunc([]byte("ab"))
	h4 := testFunc("ab")
	assert.NotEqual(t, h3, h4, "the type of the data must be part of the transcript")
}

func TestHash_Domain(t *testing.T) {
	h1 := digest(t, NewWithDomain("a"))
	h2 := digest(t, NewWithDomain("b"))
	h3 := digest(t, New())
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestHash_Clone(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny([]byte("prefix")))
	c := h.Clone()
	require.NoError(t, c.WriteAny([]byte("suffix")))
	assert.NotEqual(t, digest(t, h), digest(t, c))

	// reading from the digest does not change the state
	assert.Equal(t, digest(t, h), digest(t, h))

	long := make([]byte, 1000)
	_, err := io.ReadFull(h.Digest(), long)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(long, digest(t, h)))
}
