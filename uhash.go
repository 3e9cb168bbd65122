// Package uhash provides a pure-Go implementation of UniversalHash, a memory-hard
// proof-of-work hash function.
//
// UniversalHash maps an arbitrary input to a 256-bit digest. Each of Chains
// independent lanes expands a per-chain seed into a 512 KiB scratchpad with AES,
// then performs Rounds data-dependent read-modify-write steps over it, rotating
// between AES-, SHA-256- and BLAKE3-based compression functions. The chain states
// are folded together and finalized with SHA-256 and BLAKE3.
//
// The last 8 bytes of the input are the little-endian nonce; everything before is
// the header.
//
// Example usage:
//
//	hasher, err := uhash.New(uhash.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer hasher.Close()
//
//	digest := hasher.Hash(input)
//	if uhash.MeetsDifficulty(digest, 20) {
//	    // found a share
//	}
package uhash

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/sys/cpu"
)

// Flags represents optional execution features. None of them change the digest.
type Flags uint32

const (
	// FlagDefault runs chains sequentially.
	FlagDefault Flags = 0

	// FlagAES fills scratchpads with crypto/aes, which uses the CPU's AES
	// instructions. Without it the fill uses an allocation-free software cipher.
	// The digest is the same either way; DetectFlags sets it when the CPU has AES.
	FlagAES Flags = 1 << 0

	// FlagParallel computes chains concurrently, one goroutine per chain, unless
	// Config.Workers sets a different limit.
	FlagParallel Flags = 1 << 1
)

// String returns the set flags separated by '|'.
func (f Flags) String() string {
	if f == FlagDefault {
		return "FlagDefault"
	}
	var names []string
	if f&FlagAES != 0 {
		names = append(names, "FlagAES")
	}
	if f&FlagParallel != 0 {
		names = append(names, "FlagParallel")
	}
	if rest := f &^ (FlagAES | FlagParallel); rest != 0 {
		names = append(names, fmt.Sprintf("Flags(%#x)", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// DetectFlags returns the flags supported by the current CPU.
func DetectFlags() Flags {
	flags := FlagDefault
	if cpu.X86.HasAES || cpu.ARM64.HasAES {
		flags |= FlagAES
	}
	return flags
}

// Config specifies runtime options for a Hasher. The zero value is valid and hashes
// sequentially. Options here never affect the digest; the algorithm's parameters
// are fixed at compile time (see Params).
type Config struct {
	// Workers bounds how many chains are computed concurrently.
	// Zero or one means sequential unless FlagParallel is set.
	Workers int

	// Flags specifies optional execution features.
	Flags Flags
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("uhash: invalid worker count: %d", c.Workers)
	}
	return nil
}

// workers returns the effective number of chains computed concurrently.
func (c *Config) workers() int {
	w := c.Workers
	if w == 0 && c.Flags&FlagParallel != 0 {
		w = Chains
	}
	if w > Chains {
		w = Chains
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Hasher computes UniversalHash digests. It owns the scratchpad memory of all
// chains and reuses it across calls. Calls on one Hasher are serialized; use one
// Hasher per goroutine for parallel hashing.
type Hasher struct {
	config Config
	arena  []byte
	chains [Chains]chain
	seeder *blake3.Hasher
	closed bool
	mu     sync.Mutex
}

// New creates a Hasher with the given configuration. It returns an error wrapping
// ErrScratchpadAlloc if scratchpad memory cannot be obtained.
func New(config Config) (*Hasher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	arena, err := allocateScratchpads(Chains * ScratchpadSize)
	if err != nil {
		return nil, err
	}

	h := &Hasher{
		config: config,
		arena:  arena,
		seeder: blake3.New(),
	}
	for c := range h.chains {
		lo, hi := c*ScratchpadSize, (c+1)*ScratchpadSize
		h.chains[c] = chain{
			index:    c,
			pad:      arena[lo:hi:hi],
			hardware: config.Flags&FlagAES != 0,
		}
	}

	return h, nil
}

// Hash computes the UniversalHash digest of input.
func (h *Hasher) Hash(input []byte) [DigestSize]byte {
	var out [DigestSize]byte
	h.HashTo(&out, input)
	return out
}

// HashTo computes the UniversalHash digest of input into dst.
func (h *Hasher) HashTo(dst *[DigestSize]byte, input []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		panic("uhash: Hash called on closed hasher")
	}

	header, nonce := SplitInput(input)
	for c := range h.chains {
		h.chains[c].seed = deriveSeed(h.seeder, header, nonce, c)
		traceChain("chain seed", &h.chains[c])
	}

	h.run(nonce)

	*dst = finalize(&h.chains)
	traceDigest(input, dst)
}

// run computes every chain, concurrently if configured. Chains share no state, so
// the result is identical either way.
func (h *Hasher) run(nonce uint64) {
	workers := h.config.workers()
	if workers == 1 {
		for c := range h.chains {
			h.chains[c].compute(nonce)
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for c := range h.chains {
		wg.Add(1)
		sem <- struct{}{}
		go func(ch *chain) {
			defer wg.Done()
			defer func() { <-sem }()
			ch.compute(nonce)
		}(&h.chains[c])
	}
	wg.Wait()
}

// Params returns the parameter set this hasher implements.
func (h *Hasher) Params() Params {
	return DefaultParams()
}

// Close releases the scratchpad memory held by the hasher.
// After Close, the hasher must not be used.
func (h *Hasher) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	h.closed = true
	if h.arena != nil {
		zeroBytes(h.arena)
		h.arena = nil
	}
	for c := range h.chains {
		h.chains[c] = chain{}
	}

	return nil
}

// IsReady returns true if the hasher is ready to compute hashes.
func (h *Hasher) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed
}

// Hash computes the UniversalHash digest of input using a pooled Hasher.
// It is safe for concurrent use. It panics if scratchpad memory cannot be
// allocated; use New to handle that case as an error.
func Hash(input []byte) [DigestSize]byte {
	h := poolGetHasher()
	defer poolPutHasher(h)
	return h.Hash(input)
}

// Sum returns the digest of input as a slice.
func Sum(input []byte) []byte {
	d := Hash(input)
	return d[:]
}

// errClosed is returned by helpers that need a usable hasher.
var errClosed = errors.New("uhash: hasher is closed")
