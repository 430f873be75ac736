package votecrypt

import (
	"fmt"

	"github.com/taurusgroup/vote-primitives/pkg/shamir"
)

// SplitSecret splits secret, typically an ElGamal secret key, into n shares
// in the configured group, any threshold of which recover it.
func (t *Toolkit) SplitSecret(secret []byte, threshold, n int) ([][]byte, error) {
	shares, err := shamir.Split(t.rand, t.params.Group(), secret, threshold, n)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.SplitSecret: %w", err)
	}
	out := make([][]byte, len(shares))
	for i, share := range shares {
		if out[i], err = share.MarshalBinary(); err != nil {
			return nil, fmt.Errorf("votecrypt.SplitSecret: %w", err)
		}
	}
	t.log.Debug().Int("threshold", threshold).Int("shares", n).Msg("secret split")
	return out, nil
}

// RecoverSecret combines threshold shares produced by SplitSecret.
func (t *Toolkit) RecoverSecret(shares [][]byte, threshold int) ([]byte, error) {
	parsed := make([]*shamir.Share, len(shares))
	for i, data := range shares {
		parsed[i] = new(shamir.Share)
		if err := parsed[i].UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("votecrypt.RecoverSecret: share %d: %w", i, err)
		}
	}
	secret, err := shamir.Combine(t.params.Group(), parsed, threshold)
	if err != nil {
		return nil, fmt.Errorf("votecrypt.RecoverSecret: %w", err)
	}
	return secret, nil
}
