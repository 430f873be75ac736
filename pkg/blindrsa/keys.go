package blindrsa

import (
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/math/arith"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
	"github.com/taurusgroup/vote-primitives/pkg/pool"
)

// KeyGenConfig parametrizes GenerateKey.
type KeyGenConfig struct {
	// Bits is the size of the modulus, even and at least params.MinBitsRSA.
	Bits int `yaml:"bits"`
	// PublicExponent is e, odd and at least 3.
	PublicExponent int `yaml:"public_exponent"`
	// MaxPrimeAttempts bounds the number of sieve windows searched for the primes.
	MaxPrimeAttempts int `yaml:"max_prime_attempts"`
}

// DefaultKeyGenConfig returns 2048 bit keys with e = 65537.
func DefaultKeyGenConfig() KeyGenConfig {
	return KeyGenConfig{
		Bits:             params.BitsRSA,
		PublicExponent:   params.RSAPublicExponent,
		MaxPrimeAttempts: params.MaxPrimeAttempts,
	}
}

func (c KeyGenConfig) Validate() error {
	if c.Bits < params.MinBitsRSA || c.Bits%2 != 0 {
		return fmt.Errorf("modulus size must be even and at least %d bits, got %d", params.MinBitsRSA, c.Bits)
	}
	if c.PublicExponent < 3 || c.PublicExponent%2 == 0 {
		return fmt.Errorf("public exponent must be odd and at least 3, got %d", c.PublicExponent)
	}
	if c.MaxPrimeAttempts < 1 {
		return errors.New("max prime attempts must be positive")
	}
	return nil
}

// PublicKey is the verification key (n, e).
type PublicKey struct {
	// n has no factorization attached
	n *arith.Modulus
	e *saferith.Nat
}

// SecretKey is the signing key. It caches the factorization of n for CRT exponentiation.
type SecretKey struct {
	public *PublicKey
	// d = e⁻¹ mod λ(n)
	d *saferith.Nat
	// n with its factorization
	n *arith.Modulus
}

// GenerateKey generates a key with two primes of cfg.Bits / 2 bits, searched for on pl.
func GenerateKey(rand io.Reader, pl *pool.Pool, cfg KeyGenConfig) (*SecretKey, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	p, q, err := sample.RSA(rand, pl, cfg.Bits, cfg.PublicExponent, cfg.MaxPrimeAttempts)
	if err != nil {
		if errors.Is(err, sample.ErrRandomness) {
			return nil, fmt.Errorf("blindrsa.GenerateKey: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	sk, err := newSecretKey(p.Big(), q.Big(), big.NewInt(int64(cfg.PublicExponent)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	if sk.public.Bits() != cfg.Bits {
		return nil, fmt.Errorf("%w: modulus has %d bits instead of %d", ErrKeyGeneration, sk.public.Bits(), cfg.Bits)
	}
	return sk, nil
}

func newSecretKey(p, q, e *big.Int) (*SecretKey, error) {
	lambda := arith.Carmichael(p, q)
	if !arith.IsCoprime(e, lambda) {
		return nil, errors.New("e is not invertible modulo λ(n)")
	}
	d := new(big.Int).ModInverse(e, lambda)
	if d == nil {
		return nil, errors.New("e is not invertible modulo λ(n)")
	}
	half := p.BitLen()
	if q.BitLen() > half {
		half = q.BitLen()
	}
	n := arith.ModulusFromFactors(new(saferith.Nat).SetBig(p, half), new(saferith.Nat).SetBig(q, half))
	public := &PublicKey{
		n: arith.ModulusFromN(n.Modulus),
		e: new(saferith.Nat).SetBig(e, e.BitLen()),
	}
	return &SecretKey{
		public: public,
		d:      new(saferith.Nat).SetBig(d, lambda.BitLen()),
		n:      n,
	}, nil
}

func (sk *SecretKey) PublicKey() *PublicKey {
	return sk.public
}

// Size returns the byte length of n, which is the length of every encoded
// integer: blinded messages and signatures.
func (pk *PublicKey) Size() int {
	return (pk.n.BitLen() + 7) / 8
}

// Bits returns the bit length of n.
func (pk *PublicKey) Bits() int {
	return pk.n.BitLen()
}

// N returns a copy of the modulus.
func (pk *PublicKey) N() *big.Int {
	return pk.n.Big()
}

// E returns the public exponent.
func (pk *PublicKey) E() int {
	return int(pk.e.Big().Int64())
}

// Equal returns true if both keys have the same modulus and exponent.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.n.Nat().Eq(other.n.Nat()) == 1 && pk.e.Eq(other.e) == 1
}

// MarshalPKIX returns the DER encoding of the key as a SubjectPublicKeyInfo.
func (pk *PublicKey) MarshalPKIX() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pk.rsaKey())
}

func (pk *PublicKey) rsaKey() *rsa.PublicKey {
	return &rsa.PublicKey{N: pk.N(), E: pk.E()}
}

// ParsePublicKey parses a DER encoded SubjectPublicKeyInfo holding an RSA key.
func ParsePublicKey(der []byte) (*PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
	}
	return newPublicKey(rsaKey.N, rsaKey.E)
}

func newPublicKey(n *big.Int, e int) (*PublicKey, error) {
	if n.BitLen() < params.MinBitsRSA || n.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd and at least %d bits", ErrInvalidKey, params.MinBitsRSA)
	}
	if e < 3 || e%2 == 0 {
		return nil, fmt.Errorf("%w: unsupported public exponent %d", ErrInvalidKey, e)
	}
	return &PublicKey{
		n: arith.ModulusFromN(saferith.ModulusFromNat(new(saferith.Nat).SetBig(n, n.BitLen()))),
		e: new(saferith.Nat).SetUint64(uint64(e)),
	}, nil
}

// MarshalPKCS1 returns the DER encoding of the key, in PKCS #1 form.
//
// The output is secret.
func (sk *SecretKey) MarshalPKCS1() []byte {
	return x509.MarshalPKCS1PrivateKey(sk.rsaKey())
}

// rsaKey returns the key in crypto/rsa form, with its CRT values precomputed.
func (sk *SecretKey) rsaKey() *rsa.PrivateKey {
	p, q := sk.n.Factors()
	key := &rsa.PrivateKey{
		PublicKey: *sk.public.rsaKey(),
		D:         sk.d.Big(),
		Primes:    []*big.Int{p.Big(), q.Big()},
	}
	key.Precompute()
	return key
}

// ParseSecretKey parses a DER encoded PKCS #1 RSA private key with two primes.
func ParseSecretKey(der []byte) (*SecretKey, error) {
	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(key.Primes) != 2 {
		return nil, fmt.Errorf("%w: multi prime keys are not supported", ErrInvalidKey)
	}
	if _, err := newPublicKey(key.N, key.E); err != nil {
		return nil, err
	}
	sk, err := newSecretKey(key.Primes[0], key.Primes[1], big.NewInt(int64(key.E)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return sk, nil
}
