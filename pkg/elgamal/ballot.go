package elgamal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/internal/hash"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/pool"
	zkbit "github.com/taurusgroup/vote-primitives/pkg/zk/bit"
	zkdleq "github.com/taurusgroup/vote-primitives/pkg/zk/dleq"
)

// MaxOptions bounds the number of options of a single choice ballot.
const MaxOptions = 1 << 12

// ErrInvalidBallot is returned when decoding a malformed ballot.
var ErrInvalidBallot = errors.New("elgamal: invalid ballot")

// Ballot is a single choice vote over a fixed number of options: a one-hot
// vector of encrypted bits, each with a proof that it encrypts 0 or 1, and a
// proof that their sum encrypts exactly 1.
type Ballot struct {
	group     curve.Curve
	Choices   []*Ciphertext
	BitProofs []*zkbit.Proof
	SumProof  *zkdleq.Proof
}

type optionResult struct {
	ct    *Ciphertext
	nonce Nonce
	proof *zkbit.Proof
	err   error
}

// EncryptChoice encrypts the one-hot vector selecting choice among options,
// along with the proofs that make the ballot publicly verifiable.
//
// Options are encrypted and proven in parallel on pl.
func EncryptChoice(rand io.Reader, pl *pool.Pool, pk *PublicKey, choice, options int) (*Ballot, error) {
	if pk == nil || pk.y == nil {
		return nil, ErrInvalidKey
	}
	if options < 1 || options > MaxOptions {
		return nil, fmt.Errorf("%w: %d options", ErrInvalidPlaintext, options)
	}
	if choice < 0 || choice >= options {
		return nil, fmt.Errorf("%w: choice %d out of %d options", ErrInvalidPlaintext, choice, options)
	}
	if pk.params.maxVote < 1 {
		return nil, fmt.Errorf("%w: parameters don't allow encrypting 1", ErrInvalidPlaintext)
	}
	group := pk.params.group
	transcript, err := ballotTranscript(pk, options)
	if err != nil {
		return nil, err
	}
	reader := pool.NewLockedReader(rand)

	results := pl.Parallelize(options, func(i int) interface{} {
		bit := uint8(0)
		if i == choice {
			bit = 1
		}
		ct, nonce, err := encrypt(reader, pk, uint64(bit))
		if err != nil {
			return optionResult{err: err}
		}
		h, err := optionTranscript(transcript, i)
		if err != nil {
			return optionResult{err: err}
		}
		proof, err := zkbit.NewProof(reader, group, h, zkbit.Public{Key: pk.y, L: ct.L, M: ct.M}, zkbit.Private{K: nonce, Bit: bit})
		return optionResult{ct: ct, nonce: nonce, proof: proof, err: err}
	})

	ballot := &Ballot{
		group:     group,
		Choices:   make([]*Ciphertext, options),
		BitProofs: make([]*zkbit.Proof, options),
	}
	nonceSum := group.NewScalar()
	for i, r := range results {
		res := r.(optionResult)
		if res.err != nil {
			return nil, fmt.Errorf("elgamal.EncryptChoice: option %d: %w", i, res.err)
		}
		ballot.Choices[i] = res.ct
		ballot.BitProofs[i] = res.proof
		nonceSum.Add(res.nonce)
	}

	sum := ballot.sum(group)
	sumProof, err := zkdleq.NewProof(reader, group, sumTranscript(transcript), sumStatement(pk, sum), zkdleq.Private{X: nonceSum})
	if err != nil {
		return nil, fmt.Errorf("elgamal.EncryptChoice: sum proof: %w", err)
	}
	ballot.SumProof = sumProof
	return ballot, nil
}

// Verify checks that the ballot encrypts a single choice among options, to pk.
func (b *Ballot) Verify(pk *PublicKey, options int) bool {
	if b == nil || pk == nil || pk.y == nil {
		return false
	}
	if options < 1 || options > MaxOptions || len(b.Choices) != options || len(b.BitProofs) != options {
		return false
	}
	group := pk.params.group
	for _, ct := range b.Choices {
		if !ct.Valid() || !curve.Equal(ct.Group(), group) {
			return false
		}
	}
	transcript, err := ballotTranscript(pk, options)
	if err != nil {
		return false
	}
	for i, ct := range b.Choices {
		h, err := optionTranscript(transcript, i)
		if err != nil {
			return false
		}
		if !b.BitProofs[i].Verify(h, zkbit.Public{Key: pk.y, L: ct.L, M: ct.M}) {
			return false
		}
	}
	return b.SumProof.Verify(sumTranscript(transcript), sumStatement(pk, b.sum(group)))
}

// sum returns the homomorphic sum of all choices.
func (b *Ballot) sum(group curve.Curve) *Ciphertext {
	sum := Zero(group)
	for _, ct := range b.Choices {
		sum = sum.Add(ct)
	}
	return sum
}

// sumStatement expresses "sum encrypts 1" as (L, M - G) = (k⋅G, k⋅Y).
func sumStatement(pk *PublicKey, sum *Ciphertext) zkdleq.Public {
	return zkdleq.Public{
		H: pk.y,
		X: sum.L,
		Y: sum.M.Sub(pk.params.group.NewBasePoint()),
	}
}

func ballotTranscript(pk *PublicKey, options int) (*hash.Hash, error) {
	h := hash.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(options))
	if err := h.WriteAny("single choice ballot", pk, buf[:]); err != nil {
		return nil, err
	}
	return h, nil
}

func optionTranscript(transcript *hash.Hash, i int) (*hash.Hash, error) {
	h := transcript.Clone()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(i))
	if err := h.WriteAny("option", buf[:]); err != nil {
		return nil, err
	}
	return h, nil
}

func sumTranscript(transcript *hash.Hash) *hash.Hash {
	h := transcript.Clone()
	_ = h.WriteAny("sum")
	return h
}

type ballotWire struct {
	Choices   [][]byte `cbor:"1,keyasint"`
	BitProofs [][]byte `cbor:"2,keyasint"`
	SumProof  []byte   `cbor:"3,keyasint"`
}

// EmptyBallot returns a ballot to be unmarshalled into.
func EmptyBallot(group curve.Curve) *Ballot {
	return &Ballot{group: group}
}

// MarshalBinary returns the deterministic CBOR encoding of the ballot.
func (b *Ballot) MarshalBinary() ([]byte, error) {
	if b.SumProof == nil || len(b.Choices) != len(b.BitProofs) {
		return nil, ErrInvalidBallot
	}
	w := ballotWire{
		Choices:   make([][]byte, len(b.Choices)),
		BitProofs: make([][]byte, len(b.BitProofs)),
	}
	var err error
	for i := range b.Choices {
		if w.Choices[i], err = b.Choices[i].MarshalBinary(); err != nil {
			return nil, err
		}
		if w.BitProofs[i], err = b.BitProofs[i].MarshalBinary(); err != nil {
			return nil, err
		}
	}
	if w.SumProof, err = b.SumProof.MarshalBinary(); err != nil {
		return nil, err
	}
	return cborEncoding.Marshal(w)
}

// UnmarshalBinary expects a ballot created with EmptyBallot.
func (b *Ballot) UnmarshalBinary(data []byte) error {
	if b.group == nil {
		return fmt.Errorf("%w: group must be set, use EmptyBallot", ErrInvalidBallot)
	}
	var w ballotWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBallot, err)
	}
	if len(w.Choices) != len(w.BitProofs) || len(w.Choices) > MaxOptions {
		return fmt.Errorf("%w: %d choices and %d proofs", ErrInvalidBallot, len(w.Choices), len(w.BitProofs))
	}
	choices := make([]*Ciphertext, len(w.Choices))
	proofs := make([]*zkbit.Proof, len(w.BitProofs))
	for i := range w.Choices {
		choices[i] = Empty(b.group)
		if err := choices[i].UnmarshalBinary(w.Choices[i]); err != nil {
			return fmt.Errorf("%w: choice %d: %v", ErrInvalidBallot, i, err)
		}
		proofs[i] = zkbit.Empty(b.group)
		if err := proofs[i].UnmarshalBinary(w.BitProofs[i]); err != nil {
			return fmt.Errorf("%w: proof %d: %v", ErrInvalidBallot, i, err)
		}
	}
	sumProof := zkdleq.Empty(b.group)
	if err := sumProof.UnmarshalBinary(w.SumProof); err != nil {
		return fmt.Errorf("%w: sum proof: %v", ErrInvalidBallot, err)
	}
	b.Choices, b.BitProofs, b.SumProof = choices, proofs, sumProof
	return nil
}

// NewTally returns one encryption of zero per option, to accumulate ballots into.
func NewTally(group curve.Curve, options int) []*Ciphertext {
	tally := make([]*Ciphertext, options)
	for i := range tally {
		tally[i] = Zero(group)
	}
	return tally
}

// AddBallot returns tally with the choices of b added option by option.
//
// The ballot should have been verified beforehand.
func AddBallot(tally []*Ciphertext, b *Ballot) ([]*Ciphertext, error) {
	if b == nil || len(tally) != len(b.Choices) {
		return nil, fmt.Errorf("%w: ballot doesn't match the tally", ErrInvalidBallot)
	}
	out := make([]*Ciphertext, len(tally))
	for i := range tally {
		if !tally[i].Valid() || !b.Choices[i].Valid() || !curve.Equal(tally[i].Group(), b.Choices[i].Group()) {
			return nil, fmt.Errorf("%w: option %d", ErrInvalidCiphertext, i)
		}
		out[i] = tally[i].Add(b.Choices[i])
	}
	return out, nil
}
