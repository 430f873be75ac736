// Package votecrypt exposes the cryptography of the voting system as
// operations on byte strings.
//
// A Toolkit is created from a Config and is safe for concurrent use.
//
//	tk, err := votecrypt.New(votecrypt.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer tk.Close()
//	public, secret, err := tk.GenerateElGamalKeypair()
package votecrypt

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/vote-primitives/pkg/ecies"
	"github.com/taurusgroup/vote-primitives/pkg/elgamal"
	"github.com/taurusgroup/vote-primitives/pkg/pool"
)

// Toolkit holds an immutable Config, a randomness source, a worker pool and a logger.
type Toolkit struct {
	config Config
	params elgamal.Params
	suite  ecies.Suite

	rand     io.Reader
	pool     *pool.Pool
	ownsPool bool
	poolSet  bool
	log      zerolog.Logger

	tableOnce sync.Once
	table     *elgamal.DiscreteLogTable
	tableErr  error
}

// Option customizes a Toolkit.
type Option func(*Toolkit)

// WithRand replaces crypto/rand as the source of randomness.
// The reader is wrapped so that it may be shared between goroutines.
func WithRand(r io.Reader) Option {
	return func(t *Toolkit) {
		t.rand = pool.NewLockedReader(r)
	}
}

// WithLogger sets the logger, zerolog.Nop() by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Toolkit) {
		t.log = logger
	}
}

// WithPool uses an existing pool instead of creating one. The pool is not
// torn down by Close.
func WithPool(pl *pool.Pool) Option {
	return func(t *Toolkit) {
		t.pool = pl
		t.poolSet = true
	}
}

// New validates cfg and returns a Toolkit using it.
func New(cfg Config, opts ...Option) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, _ := cfg.elgamalParams()
	suite, _ := ecies.ParseSuite(cfg.ECIESSuite)

	t := &Toolkit{
		config: cfg,
		params: p,
		suite:  suite,
		rand:   rand.Reader,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if !t.poolSet && cfg.Workers >= 0 {
		t.pool = pool.NewPool(cfg.Workers)
		t.ownsPool = true
	}
	t.log = t.log.With().Str("component", "votecrypt").Str("group", cfg.Group).Logger()
	t.log.Debug().
		Uint64("max_vote", cfg.MaxVote).
		Int("rsa_bits", cfg.RSA.Bits).
		Stringer("ecies_suite", suite).
		Int("workers", cfg.Workers).
		Msg("toolkit ready")
	return t, nil
}

// Close releases the worker pool. The Toolkit must not be used afterwards.
func (t *Toolkit) Close() {
	if t.ownsPool {
		t.pool.TearDown()
	}
}

// Rand returns the randomness source of the Toolkit, safe for concurrent use.
func (t *Toolkit) Rand() io.Reader {
	return t.rand
}

func (t *Toolkit) Config() Config {
	return t.config
}

// discreteLogTable builds the decryption table on first use.
func (t *Toolkit) discreteLogTable() (*elgamal.DiscreteLogTable, error) {
	t.tableOnce.Do(func() {
		t.table, t.tableErr = elgamal.NewDiscreteLogTableFor(t.params)
		t.log.Debug().Err(t.tableErr).Msg("discrete log table built")
	})
	return t.table, t.tableErr
}
