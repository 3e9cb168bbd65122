package uhash

import (
	"github.com/opd-ai/go-uhash/internal"
)

// fillScratchpad expands seed into pad, which must be ScratchpadSize bytes.
//
// The seed is split into a 16-byte running state s and a 16-byte key k. Every block
// takes two expansions, a = E_k(s) and b = E_k(a), and is laid out as
//
//	a || b || a^b || b^k
//
// after which s = b. Every byte of pad is written, so the previous contents of the
// buffer never reach the round engine. The fill is strictly sequential within a
// chain.
//
// With hardware set, E_k is crypto/aes, which costs one key schedule allocation per
// call. Otherwise it is the allocation-free software cipher. Both give the same
// bytes.
func fillScratchpad(pad []byte, seed *[32]byte, hardware bool) {
	var s, k [16]byte
	copy(s[:], seed[:16])
	copy(k[:], seed[16:])

	pad = pad[:ScratchpadSize]
	if hardware {
		fillHardware(pad, &s, &k)
		return
	}

	var ks internal.KeySchedule
	ks.Init(&k)

	var a, b [16]byte
	for off := 0; off < len(pad); off += BlockSize {
		ks.Encrypt(&a, &s)
		ks.Encrypt(&b, &a)
		putBlock((*[BlockSize]byte)(pad[off:]), &a, &b, &k)
		s = b
	}
}

func fillHardware(pad []byte, s, k *[16]byte) {
	exp, err := internal.NewExpander(k)
	if err != nil {
		panic("uhash: failed to create scratchpad expander: " + err.Error())
	}

	var a, b [16]byte
	for off := 0; off < len(pad); off += BlockSize {
		exp.Expand(&a, s)
		exp.Expand(&b, &a)
		putBlock((*[BlockSize]byte)(pad[off:]), &a, &b, k)
		*s = b
	}
}

// putBlock writes a || b || a^b || b^k to blk.
func putBlock(blk *[BlockSize]byte, a, b, k *[16]byte) {
	for i := 0; i < 16; i++ {
		blk[i] = a[i]
		blk[16+i] = b[i]
		blk[32+i] = a[i] ^ b[i]
		blk[48+i] = b[i] ^ k[i]
	}
}

// scratchpadBlock returns the block at addr. addr is reduced modulo
// BlocksPerScratchpad.
func scratchpadBlock(pad []byte, addr uint64) *[BlockSize]byte {
	off := int(addr&blockMask) * BlockSize
	return (*[BlockSize]byte)(pad[off : off+BlockSize])
}
