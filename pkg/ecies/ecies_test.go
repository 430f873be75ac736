package ecies

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}

var suites = []Suite{AES256GCM, XChaCha20Poly1305}

func TestEncrypt(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	large := make([]byte, 1<<20)
	_, _ = rand.Read(large)

	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			for _, msg := range [][]byte{{}, []byte("ballot"), large} {
				ct, err := Encrypt(rand.Reader, sk.PublicKey(), msg, WithSuite(suite))
				require.NoError(t, err)
				assert.Len(t, ct, len(msg)+suite.Overhead())

				pt, err := Decrypt(sk, ct, WithSuite(suite))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(msg, pt))
			}
		})
	}
}

func TestEncrypt_MaxSize(t *testing.T) {
	if testing.Short() {
		t.Skip("encrypts 64 MiB per suite")
	}
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg := make([]byte, MaxPlaintextSize)
	_, _ = rand.Read(msg)

	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			ct, err := Encrypt(rand.Reader, sk.PublicKey(), msg, WithSuite(suite))
			require.NoError(t, err)
			assert.Len(t, ct, MaxPlaintextSize+suite.Overhead())

			pt, err := Decrypt(sk, ct, WithSuite(suite))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(msg, pt))
		})
	}
}

func TestBlindedSharedPoint(t *testing.T) {
	for i := 0; i < 20; i++ {
		sk, err := GenerateKey(rand.Reader)
		require.NoError(t, err)
		other, err := GenerateKey(rand.Reader)
		require.NoError(t, err)

		blinded, err := blindedSharedPoint(rand.Reader, sk.key, other.public.key)
		require.NoError(t, err)
		assert.Equal(t, sharedPoint(sk.key, other.public.key), blinded)
		// both parties agree
		assert.Equal(t, sharedPoint(other.key, sk.public.key), blinded)
	}

	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	ct, err := Encrypt(rand.Reader, sk.PublicKey(), []byte("m"))
	require.NoError(t, err)
	_, err = Decrypt(sk, ct, WithBlinding(failingReader{}))
	assert.ErrorIs(t, err, sample.ErrRandomness)
	pt, err := Decrypt(sk, ct, WithBlinding(rand.Reader))
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), pt)
}

func TestEncrypt_Layout(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	ct, err := Encrypt(rand.Reader, sk.PublicKey(), []byte("x"))
	require.NoError(t, err)
	assert.Len(t, ct, 65+16+16+1)
	assert.Equal(t, byte(secp256k1.PubKeyFormatUncompressed), ct[0])
	_, err = ParsePublicKey(ct[:65])
	assert.NoError(t, err)
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg := []byte("same")
	ct1, err := Encrypt(rand.Reader, sk.PublicKey(), msg)
	require.NoError(t, err)
	ct2, err := Encrypt(rand.Reader, sk.PublicKey(), msg)
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2)
	assert.NotEqual(t, ct1[:65], ct2[:65])
}

func TestDecrypt_Tampered(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg := []byte("tamper with every byte")

	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			ct, err := Encrypt(rand.Reader, sk.PublicKey(), msg, WithSuite(suite))
			require.NoError(t, err)
			for i := range ct {
				tampered := append([]byte(nil), ct...)
				tampered[i] ^= 0x01
				pt, err := Decrypt(sk, tampered, WithSuite(suite))
				assert.ErrorIs(t, err, ErrAuthentication, "byte %d", i)
				assert.Nil(t, pt)
			}
			for _, n := range []int{0, 1, 64, suite.Overhead() - 1} {
				_, err = Decrypt(sk, ct[:n], WithSuite(suite))
				assert.ErrorIs(t, err, ErrAuthentication)
			}
		})
	}
}

func TestDecrypt_Wrong(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	other, err := GenerateKey(rand.Reader)
	require.NoError(t, err)

	ct, err := Encrypt(rand.Reader, sk.PublicKey(), []byte("m"))
	require.NoError(t, err)
	_, err = Decrypt(other, ct)
	assert.ErrorIs(t, err, ErrAuthentication)
	_, err = Decrypt(sk, ct, WithSuite(XChaCha20Poly1305))
	assert.ErrorIs(t, err, ErrAuthentication)

	// compressed ephemeral keys are not part of the format
	ephemeral, err := ParsePublicKey(ct[:65])
	require.NoError(t, err)
	compressed := append(ephemeral.CompressedBytes(), ct[65:]...)
	_, err = Decrypt(sk, compressed)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestEncrypt_Invalid(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = Encrypt(rand.Reader, nil, []byte("m"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = Encrypt(failingReader{}, sk.PublicKey(), []byte("m"))
	assert.ErrorIs(t, err, sample.ErrRandomness)
	_, err = Encrypt(rand.Reader, sk.PublicKey(), []byte("m"), WithSuite(Suite(7)))
	assert.ErrorIs(t, err, ErrUnknownSuite)

	if !testing.Short() {
		_, err = Encrypt(rand.Reader, sk.PublicKey(), make([]byte, MaxPlaintextSize+1))
		assert.ErrorIs(t, err, ErrPlaintextTooLarge)
	}
}

func TestKeys(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	pk := sk.PublicKey()

	assert.Len(t, sk.Bytes(), SecretKeySize)
	assert.Len(t, pk.Bytes(), PublicKeySize)
	assert.Len(t, pk.CompressedBytes(), 33)

	sk2, err := ParseSecretKey(sk.Bytes())
	require.NoError(t, err)
	assert.True(t, pk.Equal(sk2.PublicKey()))

	for _, data := range [][]byte{pk.Bytes(), pk.CompressedBytes()} {
		pk2, err := ParsePublicKey(data)
		require.NoError(t, err)
		assert.True(t, pk.Equal(pk2))
	}

	offCurve := pk.Bytes()
	offCurve[64] ^= 1
	for _, data := range [][]byte{nil, make([]byte, 33), make([]byte, 65), offCurve, pk.Bytes()[:64]} {
		_, err = ParsePublicKey(data)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}

	order := secp256k1.Params().N.FillBytes(make([]byte, 32))
	for _, data := range [][]byte{nil, make([]byte, 32), order, bytes.Repeat([]byte{0xff}, 32), make([]byte, 31)} {
		_, err = ParseSecretKey(data)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
}

func TestParseSuite(t *testing.T) {
	for _, suite := range suites {
		parsed, err := ParseSuite(suite.String())
		require.NoError(t, err)
		assert.Equal(t, suite, parsed)
	}
	def, err := ParseSuite("")
	require.NoError(t, err)
	assert.Equal(t, AES256GCM, def)
	_, err = ParseSuite("rot13")
	assert.ErrorIs(t, err, ErrUnknownSuite)
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultBytes []byte

func BenchmarkEncrypt(b *testing.B) {
	sk, _ := GenerateKey(rand.Reader)
	msg := make([]byte, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resultBytes, _ = Encrypt(rand.Reader, sk.PublicKey(), msg)
	}
}
