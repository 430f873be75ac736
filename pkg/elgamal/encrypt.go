package elgamal

import (
	"fmt"
	"io"

	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"github.com/taurusgroup/vote-primitives/pkg/math/sample"
)

// Nonce is the randomness of an encryption. It must never leave the encrypting party.
type Nonce = curve.Scalar

// EncryptVote returns (k⋅G, vote⋅G + k⋅Y) for a fresh nonce k.
//
// Votes above the maximum of the key's Params fail with ErrInvalidPlaintext.
func EncryptVote(rand io.Reader, pk *PublicKey, vote uint64) (*Ciphertext, error) {
	ct, _, err := encrypt(rand, pk, vote)
	return ct, err
}

func encrypt(rand io.Reader, pk *PublicKey, vote uint64) (*Ciphertext, Nonce, error) {
	if pk == nil || pk.y == nil {
		return nil, nil, ErrInvalidKey
	}
	message, err := pk.params.voteScalar(vote)
	if err != nil {
		return nil, nil, err
	}
	nonce, err := sample.ScalarUnit(rand, pk.params.group)
	if err != nil {
		return nil, nil, fmt.Errorf("elgamal.EncryptVote: %w", err)
	}
	return &Ciphertext{
		L: nonce.ActOnBase(),
		M: message.ActOnBase().Add(nonce.Act(pk.y)),
	}, nonce, nil
}

// Decrypt returns vote⋅G = M - x⋅L.
func Decrypt(sk *SecretKey, ct *Ciphertext) (curve.Point, error) {
	if sk == nil || sk.x == nil {
		return nil, ErrInvalidKey
	}
	if !ct.Valid() || !curve.Equal(ct.Group(), sk.params.group) {
		return nil, fmt.Errorf("%w: not a ciphertext of %s", ErrInvalidCiphertext, sk.params.group.Name())
	}
	if ct.L.IsIdentity() {
		return nil, fmt.Errorf("%w: L is the identity", ErrInvalidCiphertext)
	}
	return ct.M.Sub(sk.x.Act(ct.L)), nil
}

// DecryptVote decrypts ct, and recovers the vote using table.
func DecryptVote(sk *SecretKey, ct *Ciphertext, table *DiscreteLogTable) (uint64, error) {
	if sk == nil {
		return 0, ErrInvalidKey
	}
	if table == nil || !curve.Equal(table.group, sk.params.group) {
		return 0, fmt.Errorf("elgamal.DecryptVote: table for another group")
	}
	P, err := Decrypt(sk, ct)
	if err != nil {
		return 0, err
	}
	return table.Solve(P)
}

// DecryptVotes decrypts every ciphertext with the same table, typically the
// per option totals of a tally.
func DecryptVotes(sk *SecretKey, cts []*Ciphertext, table *DiscreteLogTable) ([]uint64, error) {
	out := make([]uint64, len(cts))
	for i, ct := range cts {
		v, err := DecryptVote(sk, ct, table)
		if err != nil {
			return nil, fmt.Errorf("elgamal.DecryptVotes: ciphertext %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
