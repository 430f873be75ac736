package elgamal

import (
	"fmt"
	"io"

	"github.com/taurusgroup/vote-primitives/internal/hash"
	zksch "github.com/taurusgroup/vote-primitives/pkg/zk/sch"
)

const keyProofDomain = "ElGamal Key Possession"

// ProveKey returns a Schnorr proof that the holder of sk knows x for y = x⋅G,
// published next to the public key so voters don't encrypt to a key nobody can open.
func ProveKey(rand io.Reader, sk *SecretKey) ([]byte, error) {
	if sk == nil || sk.x == nil {
		return nil, ErrInvalidKey
	}
	proof, err := zksch.NewProof(rand, hash.NewWithDomain(keyProofDomain), sk.public.y, sk.x)
	if err != nil {
		return nil, fmt.Errorf("elgamal.ProveKey: %w", err)
	}
	return proof.MarshalBinary()
}

// VerifyKeyProof checks a proof created by ProveKey.
func (pk *PublicKey) VerifyKeyProof(proof []byte) bool {
	if pk == nil || pk.y == nil {
		return false
	}
	p := zksch.EmptyProof(pk.params.group)
	if err := p.UnmarshalBinary(proof); err != nil {
		return false
	}
	return p.Verify(hash.NewWithDomain(keyProofDomain), pk.y)
}
