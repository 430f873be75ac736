package votecrypt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/blindrsa"
	"github.com/taurusgroup/vote-primitives/pkg/ecies"
	"github.com/taurusgroup/vote-primitives/pkg/elgamal"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate, LoadConfig and New.
var ErrInvalidConfig = errors.New("votecrypt: invalid config")

// Config selects every algorithm parameter of a Toolkit. It is copied into the
// Toolkit and never changes afterwards.
type Config struct {
	// Group is the ElGamal group: ristretto255, secp256k1 or modp3072.
	Group string `yaml:"group"`
	// MaxVote is the largest vote accepted by EncryptVote, and the range searched on decryption.
	MaxVote uint64 `yaml:"max_vote"`
	// RSA configures blind signature keys.
	RSA blindrsa.KeyGenConfig `yaml:"rsa"`
	// ECIESSuite is aes256gcm or xchacha20poly1305.
	ECIESSuite string `yaml:"ecies_suite"`
	// Workers is the size of the worker pool. 0 uses every CPU, a negative
	// value runs everything on the calling goroutine.
	Workers int `yaml:"workers"`
}

// DefaultConfig matches the deployed voting system: ristretto255 with votes
// up to 2²⁴, 2048 bit RSA with e = 65537, and AES-256-GCM.
func DefaultConfig() Config {
	return Config{
		Group:      curve.Ristretto255{}.Name(),
		MaxVote:    params.MaxVote,
		RSA:        blindrsa.DefaultKeyGenConfig(),
		ECIESSuite: ecies.AES256GCM.String(),
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("votecrypt.LoadConfig: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for YAML already in memory.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.elgamalParams(); err != nil {
		return err
	}
	if err := c.RSA.Validate(); err != nil {
		return fmt.Errorf("%w: rsa: %v", ErrInvalidConfig, err)
	}
	if _, err := ecies.ParseSuite(c.ECIESSuite); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) elgamalParams() (elgamal.Params, error) {
	group, err := curve.FromName(c.Group)
	if err != nil {
		return elgamal.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	p, err := elgamal.NewParams(group, c.MaxVote)
	if err != nil {
		return elgamal.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}
