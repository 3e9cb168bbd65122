package uhash

import (
	"fmt"

	"github.com/opd-ai/go-uhash/internal"
)

// Primitive identifies one of the three compression functions used by the round
// engine.
type Primitive uint8

const (
	PrimitiveAES Primitive = iota
	PrimitiveSHA256
	PrimitiveBLAKE3

	numPrimitives = 3
)

// String returns the name of the primitive.
func (p Primitive) String() string {
	switch p {
	case PrimitiveAES:
		return "AES"
	case PrimitiveSHA256:
		return "SHA256"
	case PrimitiveBLAKE3:
		return "BLAKE3"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// SelectPrimitive returns the primitive used by chain in the given round.
//
// Each chain starts from the offset (nonce + chain) mod 3 and advances by one before
// every round, so round r uses ((nonce + chain) mod 3 + r + 1) mod 3. The addition
// of nonce and chain wraps at 2^64. The schedule depends only on (nonce, chain,
// round), never on scratchpad contents.
//
// chain is in [0, Chains) and round in [0, Rounds). A negative round steps back
// through the rotation, so round -1 gives the offset the chain holds before its
// first round.
func SelectPrimitive(nonce uint64, chain, round int) Primitive {
	start := (nonce + uint64(chain)) % numPrimitives
	step := round % numPrimitives
	if step < 0 {
		step += numPrimitives
	}
	return Primitive((start + uint64(step) + 1) % numPrimitives)
}

// firstPrimitive returns the rotation offset of chain before its first round.
func firstPrimitive(nonce uint64, chain int) Primitive {
	return Primitive((nonce + uint64(chain)) % numPrimitives)
}

// next returns the primitive that follows p in the rotation.
func (p Primitive) next() Primitive {
	if p == PrimitiveBLAKE3 {
		return PrimitiveAES
	}
	return p + 1
}

// compress mixes block into state with p.
func (p Primitive) compress(state *[32]byte, block *[BlockSize]byte) [32]byte {
	switch p {
	case PrimitiveAES:
		return internal.AESCompress(state, block)
	case PrimitiveSHA256:
		return internal.SHA256Compress(state, block)
	case PrimitiveBLAKE3:
		return internal.Blake3Compress(state, block)
	default:
		panic("uhash: invalid primitive " + p.String())
	}
}
