package uhash

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// chain is one independent mixing lane: its seed, working state and a view of its
// own scratchpad inside the hasher's arena. Chains share nothing with each other.
type chain struct {
	index int
	seed  [32]byte
	state [32]byte
	pad   []byte

	// hardware fills the scratchpad with crypto/aes instead of the software cipher.
	hardware bool
}

// chainTweak decorrelates chains even for small or related nonces.
func chainTweak(nonce uint64, c int) uint64 {
	return nonce ^ (uint64(c) * goldenRatio)
}

// deriveSeed computes BLAKE3(header || le64(tweak)) for chain c, reusing h.
func deriveSeed(h *blake3.Hasher, header []byte, nonce uint64, c int) (seed [32]byte) {
	var tweak [8]byte
	binary.LittleEndian.PutUint64(tweak[:], chainTweak(nonce, c))

	h.Reset()
	_, _ = h.Write(header)
	_, _ = h.Write(tweak[:])
	h.Sum(seed[:0])
	return seed
}

// compute fills the chain's scratchpad from its seed and runs all rounds. The seed
// must already be set.
func (ch *chain) compute(nonce uint64) {
	fillScratchpad(ch.pad, &ch.seed, ch.hardware)
	ch.mix(nonce)
	traceChain("chain complete", ch)
}

// mix runs Rounds read-modify-write steps over the chain's scratchpad.
//
// Each round advances the primitive rotation, derives a block address from the low
// 64 bits of the state, compresses that block into the state, and writes back to
// the same block: the new state over the first half, the old state XORed into the
// second half.
func (ch *chain) mix(nonce uint64) {
	ch.state = ch.seed
	p := firstPrimitive(nonce, ch.index)

	for r := 0; r < Rounds; r++ {
		p = p.next()

		blk := scratchpadBlock(ch.pad, binary.LittleEndian.Uint64(ch.state[:8]))
		old := ch.state
		ch.state = p.compress(&old, blk)

		copy(blk[:32], ch.state[:])
		for i := 0; i < 32; i++ {
			blk[32+i] ^= old[i]
		}
	}
}
