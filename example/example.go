package main

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/vote-primitives/pkg/blindrsa"
	"github.com/taurusgroup/vote-primitives/pkg/votecrypt"
)

const (
	authorityID = "authority"
	serverID    = "server"
)

// Election holds the public material every party knows.
type Election struct {
	Options       int
	TallyKey      []byte
	TallyKeyProof []byte
	TokenKey      []byte
	TransportKey  []byte
	TrusteeShares [][]byte
	Threshold     int

	tokenSecret     []byte
	transportSecret []byte
}

// Envelope is what a voter sends to the ballot box, encrypted to the server.
type Envelope struct {
	Token     []byte `cbor:"1,keyasint"`
	Signature []byte `cbor:"2,keyasint"`
	Ballot    []byte `cbor:"3,keyasint"`
}

// Setup generates every authority key, and splits the tally key between trustees.
func Setup(tk *votecrypt.Toolkit, options, trustees, threshold int, log zerolog.Logger) (*Election, error) {
	tallyKey, tallySecret, err := tk.GenerateElGamalKeypair()
	if err != nil {
		return nil, err
	}
	shares, err := tk.SplitSecret(tallySecret, threshold, trustees)
	if err != nil {
		return nil, err
	}
	proof, err := tk.ProveElGamalKey(tallySecret)
	if err != nil {
		return nil, err
	}
	log.Info().Int("trustees", trustees).Int("threshold", threshold).Msg("tally key generated and shared")

	tokenKey, tokenSecret, err := tk.GenerateRSAKeypair(0)
	if err != nil {
		return nil, err
	}
	log.Info().Int("size", len(tokenKey)).Msg("token signing key generated")

	transportKey, transportSecret, err := tk.GenerateECCKeypair()
	if err != nil {
		return nil, err
	}

	return &Election{
		Options:         options,
		TallyKey:        tallyKey,
		TallyKeyProof:   proof,
		TokenKey:        tokenKey,
		TransportKey:    transportKey,
		TrusteeShares:   shares,
		Threshold:       threshold,
		tokenSecret:     tokenSecret,
		transportSecret: transportSecret,
	}, nil
}

// Authority answers blind token requests, one per eligible voter.
func Authority(tk *votecrypt.Toolkit, e *Election, voters int, n *Network, log zerolog.Logger) error {
	for i := 0; i < voters; i++ {
		msg := <-n.Next(authorityID)
		blindSig, err := tk.Sign(e.tokenSecret, msg.Payload)
		if err != nil {
			return fmt.Errorf("signing token for %s: %w", msg.From, err)
		}
		log.Debug().Str("voter", msg.From).Msg("token issued")
		n.Send(&Message{From: authorityID, To: msg.From, Payload: blindSig})
	}
	return nil
}

// Voter obtains an anonymous token, and sends an encrypted ballot for choice.
func Voter(tk *votecrypt.Toolkit, e *Election, id string, token []byte, choice int, n *Network, log zerolog.Logger) error {
	if !tk.VerifyElGamalKey(e.TallyKey, e.TallyKeyProof) {
		return fmt.Errorf("%s: tally key proof rejected", id)
	}
	pk, err := blindrsa.ParsePublicKey(e.TokenKey)
	if err != nil {
		return err
	}
	requester := blindrsa.NewRequester(pk, token, log)
	req, err := requester.Blind(tk.Rand())
	if err != nil {
		return err
	}
	n.Send(&Message{From: id, To: authorityID, Payload: req.BlindedMessage})
	answer := <-n.Next(id)
	signature, err := requester.Finalize(answer.Payload)
	if err != nil {
		return fmt.Errorf("%s: token: %w", id, err)
	}

	ballot, err := tk.EncryptBallot(e.TallyKey, choice, e.Options)
	if err != nil {
		return err
	}
	envelope, err := cbor.Marshal(Envelope{Token: token, Signature: signature, Ballot: ballot})
	if err != nil {
		return err
	}
	sealed, err := tk.ECCEncrypt(e.TransportKey, envelope)
	if err != nil {
		return err
	}
	log.Debug().Str("voter", id).Int("size", len(sealed)).Msg("ballot sent")
	n.Send(&Message{From: id, To: serverID, Payload: sealed})
	return nil
}

// BallotBox accepts one ballot per valid token, and returns the encrypted tally.
func BallotBox(tk *votecrypt.Toolkit, e *Election, voters int, n *Network, log zerolog.Logger) ([][]byte, error) {
	seen := make(map[string]bool, voters)
	ballots := make([][]byte, 0, voters)
	for i := 0; i < voters; i++ {
		msg := <-n.Next(serverID)
		data, err := tk.ECCDecrypt(e.transportSecret, msg.Payload)
		if err != nil {
			log.Warn().Err(err).Msg("envelope rejected")
			continue
		}
		var envelope Envelope
		if err = cbor.Unmarshal(data, &envelope); err != nil {
			log.Warn().Err(err).Msg("envelope rejected")
			continue
		}
		if !tk.Verify(e.TokenKey, envelope.Token, envelope.Signature) {
			log.Warn().Msg("invalid token")
			continue
		}
		if seen[string(envelope.Token)] {
			log.Warn().Msg("token already used")
			continue
		}
		if !tk.VerifyBallot(e.TallyKey, envelope.Ballot, e.Options) {
			log.Warn().Msg("invalid ballot")
			continue
		}
		seen[string(envelope.Token)] = true
		ballots = append(ballots, envelope.Ballot)
	}
	if len(ballots) == 0 {
		return nil, errors.New("no valid ballot")
	}
	log.Info().Int("accepted", len(ballots)).Msg("ballot box closed")
	return tk.TallyBallots(e.TallyKey, ballots, e.Options)
}

// Result recombines the tally key from a quorum of trustees and decrypts the tally.
func Result(tk *votecrypt.Toolkit, e *Election, tally [][]byte) ([]uint64, error) {
	secret, err := tk.RecoverSecret(e.TrusteeShares[:e.Threshold], e.Threshold)
	if err != nil {
		return nil, err
	}
	return tk.DecryptVotes(secret, tally)
}
