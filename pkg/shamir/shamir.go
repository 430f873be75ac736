// Package shamir splits byte strings into threshold shares.
//
// The secret is cut into chunks small enough to be scalars of the chosen
// group, and each chunk is shared with its own random polynomial. Shares can
// optionally be checked against Feldman commitments to those polynomials.
package shamir

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/polynomial"
)

// MaxShares bounds the number of shares produced by Split.
const MaxShares = 1 << 16

var (
	ErrInvalidThreshold   = errors.New("shamir: invalid threshold")
	ErrInvalidSecret      = errors.New("shamir: invalid secret")
	ErrNotEnoughShares    = errors.New("shamir: not enough shares")
	ErrInconsistentShares = errors.New("shamir: inconsistent shares")
	ErrInvalidShare       = errors.New("shamir: invalid share")
)

// Share is the evaluation of every chunk polynomial at Index.
type Share struct {
	group curve.Curve
	// Index is the non zero x coordinate of the share.
	Index uint32
	// Length is the length of the shared secret in bytes.
	Length int
	// Values[j] = fⱼ(Index)
	Values []curve.Scalar
}

// chunkSize returns the number of bytes stored in a single scalar.
func chunkSize(group curve.Curve) int {
	return (group.ScalarBits() - 1) / 8
}

// Split shares secret between n parties so that any threshold of them can recover it.
func Split(rand io.Reader, group curve.Curve, secret []byte, threshold, n int) ([]*Share, error) {
	shares, _, err := split(rand, group, secret, threshold, n, false)
	return shares, err
}

// SplitVerifiable is Split, and also returns the commitment to each chunk polynomial.
// Commitments are public and let share holders run Share.Verify.
func SplitVerifiable(rand io.Reader, group curve.Curve, secret []byte, threshold, n int) ([]*Share, []*polynomial.Exponent, error) {
	return split(rand, group, secret, threshold, n, true)
}

func split(rand io.Reader, group curve.Curve, secret []byte, threshold, n int, commit bool) ([]*Share, []*polynomial.Exponent, error) {
	if err := validate(group, threshold, n); err != nil {
		return nil, nil, err
	}
	if len(secret) == 0 {
		return nil, nil, ErrInvalidSecret
	}

	chunks := chunk(group, secret)
	shares := make([]*Share, n)
	for i := range shares {
		shares[i] = &Share{
			group:  group,
			Index:  uint32(i + 1),
			Length: len(secret),
			Values: make([]curve.Scalar, len(chunks)),
		}
	}
	var commitments []*polynomial.Exponent
	if commit {
		commitments = make([]*polynomial.Exponent, len(chunks))
	}

	for j, c := range chunks {
		f, err := polynomial.NewPolynomial(rand, group, threshold-1, c)
		if err != nil {
			return nil, nil, fmt.Errorf("shamir.Split: %w", err)
		}
		for _, share := range shares {
			v, err := f.Evaluate(polynomial.IndexScalar(group, share.Index))
			if err != nil {
				return nil, nil, fmt.Errorf("shamir.Split: %w", err)
			}
			share.Values[j] = v
		}
		if commit {
			commitments[j] = polynomial.NewPolynomialExponent(f)
		}
	}
	return shares, commitments, nil
}

func validate(group curve.Curve, threshold, n int) error {
	if group == nil || chunkSize(group) < 1 {
		return fmt.Errorf("%w: group too small", ErrInvalidThreshold)
	}
	if threshold < 1 || threshold > n || n > MaxShares {
		return fmt.Errorf("%w: %d out of %d", ErrInvalidThreshold, threshold, n)
	}
	// indices must stay distinct modulo the order
	if group.ScalarBits() <= 17 && uint64(n) >= uint64(1)<<(group.ScalarBits()-1) {
		return fmt.Errorf("%w: %d shares exceed the group order", ErrInvalidThreshold, n)
	}
	return nil
}

func chunk(group curve.Curve, secret []byte) []curve.Scalar {
	size := chunkSize(group)
	chunks := make([]curve.Scalar, 0, (len(secret)+size-1)/size)
	for start := 0; start < len(secret); start += size {
		end := start + size
		if end > len(secret) {
			end = len(secret)
		}
		chunks = append(chunks, group.NewScalar().SetNat(new(saferith.Nat).SetBytes(secret[start:end])))
	}
	return chunks
}

// Combine recovers the secret from the first threshold shares.
func Combine(group curve.Curve, shares []*Share, threshold int) ([]byte, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrNotEnoughShares, len(shares), threshold)
	}
	shares = shares[:threshold]

	first := shares[0]
	size := chunkSize(group)
	if first == nil || first.Length < 1 || len(first.Values) != (first.Length+size-1)/size {
		return nil, ErrInconsistentShares
	}
	indices := make([]uint32, 0, threshold)
	seen := make(map[uint32]bool, threshold)
	for _, share := range shares {
		if share == nil || share.Index == 0 || seen[share.Index] ||
			share.Length != first.Length || len(share.Values) != len(first.Values) ||
			!curve.Equal(share.group, group) {
			return nil, ErrInconsistentShares
		}
		seen[share.Index] = true
		indices = append(indices, share.Index)
	}

	coefficients := polynomial.Lagrange(group, indices)
	secret := make([]byte, first.Length)
	for j := range first.Values {
		sum := group.NewScalar()
		for _, share := range shares {
			sum.Add(group.NewScalar().Set(coefficients[share.Index]).Mul(share.Values[j]))
		}
		start := j * size
		end := start + size
		if end > len(secret) {
			end = len(secret)
		}
		nat := curve.MakeNat(sum)
		if nat.Big().BitLen() > 8*(end-start) {
			return nil, ErrInconsistentShares
		}
		nat.FillBytes(secret[start:end])
	}
	return secret, nil
}

// Verify checks the share against the commitments returned by SplitVerifiable.
func (s *Share) Verify(commitments []*polynomial.Exponent) bool {
	if len(commitments) != len(s.Values) || s.Index == 0 {
		return false
	}
	x := polynomial.IndexScalar(s.group, s.Index)
	for j, c := range commitments {
		if c == nil || !c.Evaluate(x).Equal(s.Values[j].ActOnBase()) {
			return false
		}
	}
	return true
}

func (s *Share) Group() curve.Curve {
	return s.group
}
