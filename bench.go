package uhash

import (
	"time"

	"github.com/opd-ai/go-uhash/internal"
)

// Benchmark computes iterations digests with a fresh Hasher, advancing the nonce of
// a mining-format input each time, and returns the total time taken.
func Benchmark(iterations uint32) (time.Duration, error) {
	h, err := New(Config{Flags: DetectFlags()})
	if err != nil {
		return 0, err
	}
	defer h.Close()

	var m MiningInput
	input, _ := m.MarshalBinary()

	start := time.Now()
	for i := uint32(0); i < iterations; i++ {
		PutNonce(input, uint64(i))
		_ = h.Hash(input)
	}
	return time.Since(start), nil
}

// Hashrate returns the hashes per second achieved by iterations hashes in elapsed.
func Hashrate(iterations uint32, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(iterations) / elapsed.Seconds()
}

// Timings is a per-primitive cost breakdown with estimates of where a hash spends
// its time.
type Timings struct {
	AES     time.Duration
	SHA256  time.Duration
	BLAKE3  time.Duration
	Expand  time.Duration
	Average time.Duration

	// ScratchpadInit estimates filling every chain's scratchpad.
	ScratchpadInit time.Duration
	// Rounds estimates running every round of every chain.
	Rounds time.Duration
}

// Total returns the estimated cost of one hash.
func (t Timings) Total() time.Duration {
	return t.ScratchpadInit + t.Rounds
}

// PrimitiveTimings measures each primitive over iterations calls. Expansion is
// timed on the AES backend DetectFlags would pick.
func PrimitiveTimings(iterations int) Timings {
	if iterations < 1 {
		iterations = 1
	}

	var state [32]byte
	var block [BlockSize]byte
	for i := range block {
		block[i] = 1
	}

	measure := func(fn func(*[32]byte, *[BlockSize]byte) [32]byte) time.Duration {
		s := state
		start := time.Now()
		for i := 0; i < iterations; i++ {
			s = fn(&s, &block)
		}
		return time.Since(start) / time.Duration(iterations)
	}

	var t Timings
	t.AES = measure(internal.AESCompress)
	t.SHA256 = measure(internal.SHA256Compress)
	t.BLAKE3 = measure(internal.Blake3Compress)

	t.Expand = measureExpand(iterations, DetectFlags()&FlagAES != 0)

	t.Average = (t.AES + t.SHA256 + t.BLAKE3) / numPrimitives
	t.ScratchpadInit = t.Expand * BlocksPerScratchpad * expansionsPerBlock * Chains
	t.Rounds = t.Average * Rounds * Chains
	return t
}

func measureExpand(iterations int, hardware bool) time.Duration {
	var key, seed [16]byte
	seed[0] = 1

	if hardware {
		exp, err := internal.NewExpander(&key)
		if err != nil {
			panic("uhash: failed to create expander: " + err.Error())
		}
		start := time.Now()
		for i := 0; i < iterations; i++ {
			exp.Expand(&seed, &seed)
		}
		return time.Since(start) / time.Duration(iterations)
	}

	var ks internal.KeySchedule
	ks.Init(&key)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		ks.Encrypt(&seed, &seed)
	}
	return time.Since(start) / time.Duration(iterations)
}
