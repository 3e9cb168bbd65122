package internal

import (
	"encoding/binary"
	"math/bits"
)

const (
	blake3ChunkStart uint32 = 1 << 0
	blake3ChunkEnd   uint32 = 1 << 1
	blake3Root       uint32 = 1 << 3

	blake3BlockLen = 64
)

var blake3IV = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

var blake3Permutation = [16]uint8{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8}

func blake3G(a, b, c, d, mx, my uint32) (uint32, uint32, uint32, uint32) {
	a += b + mx
	d = bits.RotateLeft32(d^a, -16)
	c += d
	b = bits.RotateLeft32(b^c, -12)
	a += b + my
	d = bits.RotateLeft32(d^a, -8)
	c += d
	b = bits.RotateLeft32(b^c, -7)
	return a, b, c, d
}

// blake3Compress is the BLAKE3 compression function truncated to its 8-word chaining
// output.
func blake3Compress(cv *[8]uint32, m [16]uint32, counter uint64, blen, flags uint32) [8]uint32 {
	s := [16]uint32{
		cv[0], cv[1], cv[2], cv[3],
		cv[4], cv[5], cv[6], cv[7],
		blake3IV[0], blake3IV[1], blake3IV[2], blake3IV[3],
		uint32(counter), uint32(counter >> 32), blen, flags,
	}

	for round := 0; round < 7; round++ {
		s[0], s[4], s[8], s[12] = blake3G(s[0], s[4], s[8], s[12], m[0], m[1])
		s[1], s[5], s[9], s[13] = blake3G(s[1], s[5], s[9], s[13], m[2], m[3])
		s[2], s[6], s[10], s[14] = blake3G(s[2], s[6], s[10], s[14], m[4], m[5])
		s[3], s[7], s[11], s[15] = blake3G(s[3], s[7], s[11], s[15], m[6], m[7])

		s[0], s[5], s[10], s[15] = blake3G(s[0], s[5], s[10], s[15], m[8], m[9])
		s[1], s[6], s[11], s[12] = blake3G(s[1], s[6], s[11], s[12], m[10], m[11])
		s[2], s[7], s[8], s[13] = blake3G(s[2], s[7], s[8], s[13], m[12], m[13])
		s[3], s[4], s[9], s[14] = blake3G(s[3], s[4], s[9], s[14], m[14], m[15])

		if round < 6 {
			var p [16]uint32
			for i, j := range blake3Permutation {
				p[i] = m[j]
			}
			m = p
		}
	}

	var out [8]uint32
	for i := range out {
		out[i] = s[i] ^ s[i+8]
	}
	return out
}

// Blake3Compress runs the BLAKE3 compression function over block with state as the
// chaining value, as a single full chunk block (counter 0, CHUNK_START|CHUNK_END).
// Words are little-endian.
func Blake3Compress(state *[32]byte, block *[64]byte) (out [32]byte) {
	return blake3CompressBytes(state, block, blake3ChunkStart|blake3ChunkEnd)
}

func blake3CompressBytes(state *[32]byte, block *[64]byte, flags uint32) (out [32]byte) {
	var cv [8]uint32
	for i := range cv {
		cv[i] = binary.LittleEndian.Uint32(state[4*i:])
	}
	var m [16]uint32
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(block[4*i:])
	}

	h := blake3Compress(&cv, m, 0, blake3BlockLen, flags)
	for i := range h {
		binary.LittleEndian.PutUint32(out[4*i:], h[i])
	}
	return out
}
