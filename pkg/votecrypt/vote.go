package votecrypt

import (
	"fmt"

	"github.com/taurusgroup/vote-primitives/pkg/elgamal"
)

// GenerateElGamalKeypair returns a fresh tally authority keypair.
func (t *Toolkit) GenerateElGamalKeypair() (public, secret []byte, err error) {
	sk, pk, err := elgamal.GenerateKeypair(t.rand, t.params)
	if err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateElGamalKeypair: %w", err)
	}
	if public, err = pk.MarshalBinary(); err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateElGamalKeypair: %w", err)
	}
	if secret, err = sk.MarshalBinary(); err != nil {
		return nil, nil, fmt.Errorf("votecrypt.GenerateElGamalKeypair: %w", err)
	}
	t.log.Debug().Msg("elgamal keypair generated")
	return public, secret, nil
}

// EncryptVote encrypts vote ∈ [0, MaxVote] to the public key.
func (t *Toolkit) EncryptVote(public []byte, vote uint64) ([]byte, error) {
	pk, err := elgamal.ParsePublicKey(t.params, public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.EncryptVote: %w", err)
	}
	ct, err := elgamal.EncryptVote(t.rand, pk, vote)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.EncryptVote: %w", err)
	}
	t.log.Debug().Msg("vote encrypted")
	return ct.MarshalBinary()
}

// AddVotes returns the encryption of the sum of the votes in ciphertexts.
func (t *Toolkit) AddVotes(ciphertexts [][]byte) ([]byte, error) {
	sum := elgamal.Zero(t.params.Group())
	for i, data := range ciphertexts {
		ct, err := t.parseCiphertext(data)
		if err != nil {
			return nil, fmt.Errorf("votecrypt.AddVotes: ciphertext %d: %w", i, err)
		}
		sum = sum.Add(ct)
	}
	return sum.MarshalBinary()
}

// DecryptVotes decrypts each ciphertext with a single discrete log table.
func (t *Toolkit) DecryptVotes(secret []byte, ciphertexts [][]byte) ([]uint64, error) {
	sk, err := elgamal.ParseSecretKey(t.params, secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.DecryptVotes: %w", err)
	}
	cts := make([]*elgamal.Ciphertext, len(ciphertexts))
	for i, data := range ciphertexts {
		if cts[i], err = t.parseCiphertext(data); err != nil {
			return nil, fmt.Errorf("votecrypt.DecryptVotes: ciphertext %d: %w", i, err)
		}
	}
	table, err := t.discreteLogTable()
	if err != nil {
		return nil, fmt.Errorf("votecrypt.DecryptVotes: %w", err)
	}
	votes, err := elgamal.DecryptVotes(sk, cts, table)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.DecryptVotes: %w", err)
	}
	t.log.Debug().Int("count", len(votes)).Msg("votes decrypted")
	return votes, nil
}

func (t *Toolkit) parseCiphertext(data []byte) (*elgamal.Ciphertext, error) {
	ct := elgamal.Empty(t.params.Group())
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return ct, nil
}

// EncryptBallot encrypts a single choice among options, with proofs that the
// ballot is well formed.
func (t *Toolkit) EncryptBallot(public []byte, choice, options int) ([]byte, error) {
	pk, err := elgamal.ParsePublicKey(t.params, public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.EncryptBallot: %w", err)
	}
	b, err := elgamal.EncryptChoice(t.rand, t.pool, pk, choice, options)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.EncryptBallot: %w", err)
	}
	data, err := b.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("votecrypt.EncryptBallot: %w", err)
	}
	t.log.Debug().Int("options", options).Int("size", len(data)).Msg("ballot encrypted")
	return data, nil
}

// VerifyBallot returns true if ballot is a well formed encryption of a single
// choice among options.
func (t *Toolkit) VerifyBallot(public, ballot []byte, options int) bool {
	pk, err := elgamal.ParsePublicKey(t.params, public)
	if err != nil {
		return false
	}
	b := elgamal.EmptyBallot(t.params.Group())
	if err = b.UnmarshalBinary(ballot); err != nil {
		return false
	}
	ok := b.Verify(pk, options)
	t.log.Debug().Bool("valid", ok).Int("options", options).Msg("ballot verified")
	return ok
}

// TallyBallots verifies every ballot and returns the per option encrypted sums.
// A single invalid ballot fails the whole tally.
func (t *Toolkit) TallyBallots(public []byte, ballots [][]byte, options int) ([][]byte, error) {
	pk, err := elgamal.ParsePublicKey(t.params, public)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.TallyBallots: %w", err)
	}
	if options < 1 || options > elgamal.MaxOptions {
		return nil, fmt.Errorf("votecrypt.TallyBallots: %w", elgamal.ErrInvalidBallot)
	}
	tally := elgamal.NewTally(t.params.Group(), options)
	for i, data := range ballots {
		b := elgamal.EmptyBallot(t.params.Group())
		if err = b.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("votecrypt.TallyBallots: ballot %d: %w", i, err)
		}
		if !b.Verify(pk, options) {
			return nil, fmt.Errorf("votecrypt.TallyBallots: ballot %d: %w", i, elgamal.ErrInvalidBallot)
		}
		if tally, err = elgamal.AddBallot(tally, b); err != nil {
			return nil, fmt.Errorf("votecrypt.TallyBallots: ballot %d: %w", i, err)
		}
	}
	out := make([][]byte, options)
	for i, ct := range tally {
		if out[i], err = ct.MarshalBinary(); err != nil {
			return nil, fmt.Errorf("votecrypt.TallyBallots: %w", err)
		}
	}
	t.log.Debug().Int("ballots", len(ballots)).Int("options", options).Msg("ballots tallied")
	return out, nil
}

// ProveElGamalKey returns a proof of possession of the secret key, to publish with the public key.
func (t *Toolkit) ProveElGamalKey(secret []byte) ([]byte, error) {
	sk, err := elgamal.ParseSecretKey(t.params, secret)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.ProveElGamalKey: %w", err)
	}
	return elgamal.ProveKey(t.rand, sk)
}

// VerifyElGamalKey checks a proof from ProveElGamalKey.
func (t *Toolkit) VerifyElGamalKey(public, proof []byte) bool {
	pk, err := elgamal.ParsePublicKey(t.params, public)
	if err != nil {
		return false
	}
	return pk.VerifyKeyProof(proof)
}
