package uhash

import (
	"errors"
	"fmt"
)

// The parameter set fixes the memory and time cost of the algorithm and is part of
// its identity: changing any of these values changes every digest, and must come
// with a new AlgorithmVersion.
const (
	// AlgorithmVersion identifies the parameter set and construction below.
	AlgorithmVersion = 4

	// Chains is the number of independent mixing lanes.
	Chains = 4

	// Rounds is the number of mix steps per chain.
	Rounds = 12288

	// BlocksPerScratchpad is the number of blocks in each chain's scratchpad.
	// It must be a power of two.
	BlocksPerScratchpad = 8192

	// BlockSize is the scratchpad block size in bytes, equal to the primitives'
	// block input size.
	BlockSize = 64

	// ScratchpadSize is the size of one chain's scratchpad (512 KiB).
	ScratchpadSize = BlocksPerScratchpad * BlockSize

	// DigestSize is the size of a UniversalHash digest in bytes.
	DigestSize = 32

	// NonceSize is the number of trailing input bytes read as the nonce.
	NonceSize = 8

	// expansionsPerBlock is the number of AES expansions used to fill one block.
	expansionsPerBlock = 2

	// goldenRatio is the 64-bit fractional part of the golden ratio. It is odd, so
	// multiplying distinct chain indexes by it never collides modulo 2^64.
	goldenRatio = 0x9e3779b97f4a7c15

	blockMask = BlocksPerScratchpad - 1
)

// Compile-time check that BlocksPerScratchpad is a power of two.
var _ [0]struct{} = [BlocksPerScratchpad & blockMask]struct{}{}

// ErrVersionMismatch is returned when two parameter sets describe different versions
// of the algorithm.
var ErrVersionMismatch = errors.New("uhash: parameter set mismatch")

// Params describes a parameter set. It is used to tag digests exchanged with other
// implementations.
type Params struct {
	Version             int `json:"version"`
	Chains              int `json:"chains"`
	Rounds              int `json:"rounds"`
	BlocksPerScratchpad int `json:"blocks_per_scratchpad"`
	BlockSize           int `json:"block_size"`
}

// DefaultParams returns the parameter set compiled into this package.
func DefaultParams() Params {
	return Params{
		Version:             AlgorithmVersion,
		Chains:              Chains,
		Rounds:              Rounds,
		BlocksPerScratchpad: BlocksPerScratchpad,
		BlockSize:           BlockSize,
	}
}

// String returns a short human-readable description of the parameter set.
func (p Params) String() string {
	return fmt.Sprintf("uhash/v%d (chains=%d rounds=%d blocks=%d)",
		p.Version, p.Chains, p.Rounds, p.BlocksPerScratchpad)
}

// MemorySize returns the scratchpad memory a hasher needs for this parameter set.
func (p Params) MemorySize() int {
	return p.Chains * p.BlocksPerScratchpad * p.BlockSize
}

// Compatible reports whether digests computed under other can be verified with
// this parameter set. It returns an error wrapping ErrVersionMismatch if not.
func (p Params) Compatible(other Params) error {
	if p != other {
		return fmt.Errorf("%w: have %v, got %v", ErrVersionMismatch, p, other)
	}
	return nil
}
