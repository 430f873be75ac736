package blindrsa

import (
	"io"

	"github.com/rs/zerolog"
)

// State is the progress of a Requester.
type State int

const (
	// StateUnblinded holds only the message.
	StateUnblinded State = iota
	// StateBlindedRequest has a request waiting for the signer.
	StateBlindedRequest
	// StateSignedBlinded has received a blind signature.
	StateSignedBlinded
	// StateUnblindedSignature holds a signature that was not verified yet.
	StateUnblindedSignature
	// StateVerified holds a signature valid for the message.
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateUnblinded:
		return "unblinded"
	case StateBlindedRequest:
		return "blinded_request"
	case StateSignedBlinded:
		return "signed_blinded"
	case StateUnblindedSignature:
		return "unblinded_signature"
	case StateVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// Requester drives one blind signature run for a single message.
// It is not safe for concurrent use.
type Requester struct {
	pk      *PublicKey
	message []byte
	state   State

	factor    *BlindingFactor
	blindSig  []byte
	signature []byte

	log zerolog.Logger
}

// NewRequester returns a Requester for message, in StateUnblinded.
func NewRequester(pk *PublicKey, message []byte, logger zerolog.Logger) *Requester {
	msg := make([]byte, len(message))
	copy(msg, message)
	return &Requester{
		pk:      pk,
		message: msg,
		state:   StateUnblinded,
		log:     logger.With().Str("component", "blindrsa.Requester").Logger(),
	}
}

func (r *Requester) State() State {
	return r.state
}

func (r *Requester) transition(to State) {
	r.log.Debug().Stringer("from", r.state).Stringer("to", to).Msg("state transition")
	r.state = to
}

// Blind creates the request to send to the signer.
func (r *Requester) Blind(rand io.Reader) (*Request, error) {
	if r.state != StateUnblinded {
		return nil, ErrState
	}
	req, factor, err := CreateRequest(rand, r.pk, r.message)
	if err != nil {
		r.log.Debug().Err(err).Msg("blinding failed")
		return nil, err
	}
	r.factor = factor
	r.transition(StateBlindedRequest)
	return req, nil
}

// Receive stores the signer's answer.
func (r *Requester) Receive(blindSig []byte) error {
	if r.state != StateBlindedRequest {
		return ErrState
	}
	if _, ok := fromBytes(blindSig, r.pk); !ok {
		return ErrInvalidSignature
	}
	r.blindSig = append([]byte(nil), blindSig...)
	r.transition(StateSignedBlinded)
	return nil
}

// Unblind removes the blinding factor, which is then discarded.
func (r *Requester) Unblind() ([]byte, error) {
	if r.state != StateSignedBlinded {
		return nil, ErrState
	}
	sig, err := Unblind(r.factor, r.blindSig, r.pk)
	if err != nil {
		return nil, err
	}
	r.factor = nil
	r.signature = sig
	r.transition(StateUnblindedSignature)
	return sig, nil
}

// Verify checks the unblinded signature against the message.
// On failure the Requester stays in StateUnblindedSignature.
func (r *Requester) Verify() bool {
	if r.state != StateUnblindedSignature {
		return false
	}
	if !Verify(r.pk, r.message, r.signature) {
		r.log.Debug().Msg("unblinded signature is invalid")
		return false
	}
	r.transition(StateVerified)
	return true
}

// Finalize runs Receive, Unblind and Verify, and returns the verified signature.
func (r *Requester) Finalize(blindSig []byte) ([]byte, error) {
	if err := r.Receive(blindSig); err != nil {
		return nil, err
	}
	sig, err := r.Unblind()
	if err != nil {
		return nil, err
	}
	if !r.Verify() {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

// Signature returns the signature once verified.
func (r *Requester) Signature() ([]byte, bool) {
	if r.state != StateVerified {
		return nil, false
	}
	return append([]byte(nil), r.signature...), true
}
