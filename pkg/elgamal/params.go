package elgamal

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

var (
	// ErrInvalidPlaintext is returned for votes outside of [0, MaxVote].
	ErrInvalidPlaintext = errors.New("elgamal: invalid plaintext")
	// ErrInvalidKey is returned for malformed keys, keys of another group, or the identity.
	ErrInvalidKey = errors.New("elgamal: invalid key")
	// ErrInvalidCiphertext is returned for malformed ciphertexts, or ones that can't be decrypted.
	ErrInvalidCiphertext = errors.New("elgamal: invalid ciphertext")
	// ErrDiscreteLog is returned when a decrypted point lies outside the range of a DiscreteLogTable.
	ErrDiscreteLog = errors.New("elgamal: plaintext outside of the discrete log table")
	// ErrInvalidParams is returned by NewParams and NewDiscreteLogTable.
	ErrInvalidParams = errors.New("elgamal: invalid parameters")
)

// Params selects the group votes are encrypted in, and the largest vote that
// may be encrypted.
//
// Params are immutable values; the zero value is not usable, use DefaultParams or NewParams.
type Params struct {
	group   curve.Curve
	maxVote uint64
}

// DefaultParams returns ristretto255 with votes up to 2²⁴.
func DefaultParams() Params {
	return Params{
		group:   curve.Ristretto255{},
		maxVote: params.MaxVote,
	}
}

// NewParams checks that every vote in [0, maxVote] has a distinct encoding in group,
// and that maxVote is at most params.MaxVoteLimit, so that decryption stays bounded.
func NewParams(group curve.Curve, maxVote uint64) (Params, error) {
	if group == nil {
		return Params{}, fmt.Errorf("%w: nil group", ErrInvalidParams)
	}
	if maxVote > params.MaxVoteLimit {
		return Params{}, fmt.Errorf("%w: max vote %d exceeds %d", ErrInvalidParams, maxVote, uint64(params.MaxVoteLimit))
	}
	max := new(saferith.Nat).SetUint64(maxVote)
	if _, _, lt := max.CmpMod(group.Order()); lt != 1 {
		return Params{}, fmt.Errorf("%w: max vote %d is not below the order of %s", ErrInvalidParams, maxVote, group.Name())
	}
	return Params{group: group, maxVote: maxVote}, nil
}

func (p Params) Group() curve.Curve {
	return p.group
}

func (p Params) MaxVote() uint64 {
	return p.maxVote
}

func (p Params) valid() bool {
	return p.group != nil
}

// voteScalar returns vote as a scalar, if it is encodable.
func (p Params) voteScalar(vote uint64) (curve.Scalar, error) {
	if vote > p.maxVote {
		return nil, fmt.Errorf("%w: vote %d exceeds %d", ErrInvalidPlaintext, vote, p.maxVote)
	}
	return p.group.NewScalar().SetNat(new(saferith.Nat).SetUint64(vote)), nil
}
