package params

const (
	SecParam = 256

	// BitsRSA is the modulus size used when a caller does not choose one.
	BitsRSA = 8 * SecParam // = 2048
	// MinBitsRSA is the smallest modulus we agree to generate or load.
	MinBitsRSA = 4 * SecParam // = 1024

	// RSAPublicExponent is F4, the conventional RSA public exponent.
	RSAPublicExponent = 65537

	// MaxPrimeAttempts is the default number of sieve windows searched for
	// each RSA prime before giving up.
	MaxPrimeAttempts = 64

	// MaxVote is the largest vote value that EncryptVote accepts by default.
	// Decrypting relies on a lookup table, so this also bounds table sizes.
	MaxVote = 1 << 24
	// MaxVoteLimit is the largest vote bound any group may be configured with.
	// A discrete log table for it holds 2²⁰ points.
	MaxVoteLimit = 1 << 40

	// MaxECIESPlaintext bounds the payloads accepted by the ECIES channel.
	MaxECIESPlaintext = 64 << 20
)
