package blindrsa

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/internal/hash"
)

// EncodingDomain versions the message encoding. Changing it invalidates every
// issued signature.
const EncodingDomain = "vote-primitives/blindrsa/FDH-BLAKE3-v1"

// EncodeMessage maps a message to an element of ℤₙˣ.
//
// The BLAKE3 XOF is keyed by EncodingDomain and absorbs n and the message.
// len(n) bytes are read, and every bit at or above bitlen(n) - 1 is cleared so
// the result is smaller than n.
func EncodeMessage(pk *PublicKey, message []byte) (*saferith.Nat, error) {
	h := hash.NewWithDomain(EncodingDomain)
	if err := h.WriteAny(pk.n.Bytes(), message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	size := pk.Size()
	buf := make([]byte, size)
	if _, err := io.ReadFull(h.Digest(), buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	// keep the bottom bitlen(n) - 1 bits
	extra := 8*size - (pk.Bits() - 1)
	for i := 0; extra > 0; i++ {
		if extra >= 8 {
			buf[i] = 0
			extra -= 8
			continue
		}
		buf[i] &= 0xff >> extra
		extra = 0
	}
	m := new(saferith.Nat).SetBytes(buf)
	if m.EqZero() == 1 || m.IsUnit(pk.n.Modulus) != 1 {
		return nil, ErrEncoding
	}
	return m, nil
}
