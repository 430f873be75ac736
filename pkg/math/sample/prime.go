package sample

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/pkg/pool"
)

// primes generates an array containing all the odd prime numbers < below
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	// Initially, all numbers starting from 2 are considered prime
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	// Now, we remove the multiples of every prime number we encounter
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	// There are approximately N / log N primes below N
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}

	return out
}

// The number of numbers to check after our initial prime guess
const sieveSize = 1 << 18

// The upper bound on the prime numbers used for sieving
const primeBound = 1 << 16

// the number of Miller-Rabin rounds used when checking primality, on top of
// the Baillie-PSW test big.Int always runs.
//
// 20 is the same number that Go uses internally.
const primalityIterations = 20

// ErrMaxPrimeIterations is returned when no prime was found within the allowed number of sieve windows.
var ErrMaxPrimeIterations = errors.New("sample: failed to generate prime within the allowed attempts")

// ErrInvalidPrimeSize is returned when asked for primes too small to be sieved.
var ErrInvalidPrimeSize = errors.New("sample: invalid prime size")

// We want to avoid calculating our prime numbers multiple times, but we also
// don't want to waste time sieving them before they're needed.
var thePrimes []uint32
var initPrimes sync.Once

// We use a large buffer for sieving, and reuse these buffers between windows.
var sievePool = sync.Pool{
	New: func() interface{} {
		sieve := make([]bool, sieveSize)
		return &sieve
	},
}

// tryRSAPrime looks for a prime p of exactly bits bits, with gcd(e, p - 1) = 1,
// in a single sieve window starting at a random odd base.
//
// It returns nil if the window contains no such prime, or if rand failed; in
// the latter case, failed is set.
func tryRSAPrime(rand io.Reader, bits int, e *big.Int, failed *errorFlag) *big.Int {
	initPrimes.Do(func() {
		thePrimes = primes(primeBound)
	})

	bytes := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		failed.set(err)
		return nil
	}
	// Clear bits above the requested size
	excess := uint(len(bytes)*8 - bits)
	bytes[0] &= 0xFF >> excess
	// Ensure that the top two bits are set
	//
	// This makes it so that when multiplying two primes generated with this method,
	// the resulting number has twice the number of bits.
	if bits%8 == 1 {
		bytes[0] |= 1
		bytes[1] |= 0x80
	} else {
		bytes[0] |= 0xC0 >> excess
	}
	// odd base, so that even offsets keep candidates odd
	bytes[len(bytes)-1] |= 1
	base := new(big.Int).SetBytes(bytes)

	sievePtr := sievePool.Get().(*[]bool)
	sieve := *sievePtr
	defer sievePool.Put(sievePtr)
	for i := 0; i < len(sieve); i++ {
		sieve[i] = i%2 == 0
	}
	// we can only exclude p = 1 mod e for small prime e, the general case is
	// handled by the gcd check below.
	smallE := uint32(0)
	if e.IsUint64() && e.Uint64() < primeBound {
		smallE = uint32(e.Uint64())
	}
	remainder := new(big.Int)
	for _, prime := range thePrimes {
		remainder.SetUint64(uint64(prime))
		remainder.Mod(base, remainder)
		r := int(remainder.Uint64())
		primeInt := int(prime)
		// base + i = 0 mod prime
		firstMultiple := (primeInt - r) % primeInt
		for i := firstMultiple; i < len(sieve); i += primeInt {
			sieve[i] = false
		}
		if prime == smallE {
			// base + i = 1 mod e means e | p - 1
			firstOne := (primeInt - r + 1) % primeInt
			for i := firstOne; i < len(sieve); i += primeInt {
				sieve[i] = false
			}
		}
	}
	p := new(big.Int)
	pMinusOne := new(big.Int)
	gcd := new(big.Int)
	one := big.NewInt(1)
	for delta := 0; delta < len(sieve); delta++ {
		if !sieve[delta] {
			continue
		}

		p.SetUint64(uint64(delta))
		p.Add(p, base)
		if p.BitLen() > bits {
			return nil
		}
		// The sieve only excluded small factors, the real check is this one.
		if !p.ProbablyPrime(primalityIterations) {
			continue
		}
		pMinusOne.Sub(p, one)
		if gcd.GCD(nil, nil, e, pMinusOne).Cmp(one) != 0 {
			continue
		}
		return p
	}

	return nil
}

type errorFlag struct {
	m   sync.Mutex
	err error
}

func (f *errorFlag) set(err error) {
	f.m.Lock()
	defer f.m.Unlock()
	if f.err == nil {
		f.err = err
	}
}

func (f *errorFlag) get() error {
	f.m.Lock()
	defer f.m.Unlock()
	return f.err
}

// RSA generates two distinct primes p, q of bits / 2 bits each, such that
// n = pq has exactly bits bits and gcd(e, (p - 1)(q - 1)) = 1.
//
// The search runs on pl, trying at most maxAttempts sieve windows overall.
func RSA(rand io.Reader, pl *pool.Pool, bits int, e int, maxAttempts int) (p, q *saferith.Nat, err error) {
	if bits < 64 || bits%2 != 0 {
		return nil, nil, fmt.Errorf("%w: %d bits", ErrInvalidPrimeSize, bits)
	}
	if e < 3 || e%2 == 0 {
		return nil, nil, fmt.Errorf("%w: public exponent %d", ErrInvalidPrimeSize, e)
	}
	half := bits / 2
	bigE := big.NewInt(int64(e))
	reader := pool.NewLockedReader(rand)
	var failed errorFlag

	// A collision between the two primes is negligible, but we try once more if it happens.
	for round := 0; round < 2; round++ {
		results, err := pl.Search(2, maxAttempts, func() interface{} {
			p := tryRSAPrime(reader, half, bigE, &failed)
			// You have to do this, because of how Go handles nil.
			if p == nil {
				return nil
			}
			return p
		})
		if readErr := failed.get(); readErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrRandomness, readErr)
		}
		if err != nil {
			if errors.Is(err, pool.ErrSearchExhausted) {
				return nil, nil, fmt.Errorf("%w (%d windows of %d bits)", ErrMaxPrimeIterations, maxAttempts, half)
			}
			return nil, nil, err
		}
		pBig, qBig := results[0].(*big.Int), results[1].(*big.Int)
		if pBig.Cmp(qBig) == 0 {
			continue
		}
		p = new(saferith.Nat).SetBig(pBig, half)
		q = new(saferith.Nat).SetBig(qBig, half)
		return p, q, nil
	}
	return nil, nil, ErrMaxPrimeIterations
}
