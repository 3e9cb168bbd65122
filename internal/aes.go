// Package internal provides the fixed-size compression primitives of UniversalHash.
// Every function here is pure, operates on fixed-size arrays and does not branch on
// the values it processes.
package internal

import (
	"crypto/aes"
	"crypto/cipher"
)

// sbox is the AES S-box, derived at init from the multiplicative inverse in GF(2^8)
// followed by the affine transform.
var sbox [256]byte

func init() {
	var p, q byte = 1, 1
	for {
		// p *= 3
		p = p ^ (p << 1) ^ ((p >> 7) * 0x1b)
		// q /= 3
		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		q ^= (q >> 7) * 0x09

		sbox[p] = 0x63 ^ q ^ rotl8(q, 1) ^ rotl8(q, 2) ^ rotl8(q, 3) ^ rotl8(q, 4)
		if p == 1 {
			break
		}
	}
	sbox[0] = 0x63
}

func rotl8(x byte, n uint) byte {
	return x<<n | x>>(8-n)
}

// xtime multiplies by x in GF(2^8) without branching on the high bit.
func xtime(b byte) byte {
	return b<<1 ^ (0x1b & -(b >> 7))
}

// subShift applies SubBytes and ShiftRows to a column-major AES state.
func subShift(s *[16]byte) {
	var t [16]byte
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[r+4*c] = sbox[s[r+4*((c+r)&3)]]
		}
	}
	*s = t
}

// mixColumns applies the AES MixColumns transform to every column.
func mixColumns(s *[16]byte) {
	for c := 0; c < 16; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		all := a0 ^ a1 ^ a2 ^ a3
		s[c] = a0 ^ all ^ xtime(a0^a1)
		s[c+1] = a1 ^ all ^ xtime(a1^a2)
		s[c+2] = a2 ^ all ^ xtime(a2^a3)
		s[c+3] = a3 ^ all ^ xtime(a3^a0)
	}
}

// AESRound performs one full AES encryption round on state in place, with the same
// semantics as the x86 AESENC instruction: SubBytes, ShiftRows, MixColumns, then
// AddRoundKey with key.
func AESRound(state, key *[16]byte) {
	subShift(state)
	mixColumns(state)
	for i := range state {
		state[i] ^= key[i]
	}
}

// AESCompress mixes a 64-byte block into a 32-byte state using AES rounds.
//
// The state is split into two 16-byte lanes. Each lane absorbs the four 16-byte
// words of block over four rounds, with the second lane's key schedule rotated by
// two words. A final round keys each lane with the other, and the input state is
// fed forward so the function cannot be run backwards from its output.
func AESCompress(state *[32]byte, block *[64]byte) (out [32]byte) {
	var a, b [16]byte
	copy(a[:], state[:16])
	copy(b[:], state[16:])

	for r := 0; r < 4; r++ {
		AESRound(&a, (*[16]byte)(block[16*r:]))
		AESRound(&b, (*[16]byte)(block[16*((r+2)&3):]))
	}

	ta := a
	AESRound(&a, &b)
	AESRound(&b, &ta)

	for i := 0; i < 16; i++ {
		out[i] = a[i] ^ state[i]
		out[16+i] = b[i] ^ state[16+i]
	}
	return out
}

// KeySchedule is an expanded AES-128 key. Encrypting with it is pure software,
// built on AESRound, and never allocates.
type KeySchedule [11][16]byte

var aesRcon = [10]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// Init expands key into ks.
func (ks *KeySchedule) Init(key *[16]byte) {
	ks[0] = *key
	for r := 1; r < len(ks); r++ {
		prev := &ks[r-1]
		t := [4]byte{sbox[prev[13]], sbox[prev[14]], sbox[prev[15]], sbox[prev[12]]}
		t[0] ^= aesRcon[r-1]
		for w := 0; w < 4; w++ {
			for i := 0; i < 4; i++ {
				t[i] ^= prev[4*w+i]
				ks[r][4*w+i] = t[i]
			}
		}
	}
}

// Encrypt writes the AES-128 encryption of src to dst. dst and src may alias.
func (ks *KeySchedule) Encrypt(dst, src *[16]byte) {
	s := *src
	for i := range s {
		s[i] ^= ks[0][i]
	}
	for r := 1; r < 10; r++ {
		AESRound(&s, &ks[r])
	}
	subShift(&s)
	for i := range s {
		s[i] ^= ks[10][i]
	}
	*dst = s
}

// Expander encrypts with crypto/aes, which uses the CPU's AES instructions when
// present. Building it allocates a key schedule; use KeySchedule where allocations
// matter more than throughput.
type Expander struct {
	block cipher.Block
}

// NewExpander creates an Expander keyed with key.
func NewExpander(key *[16]byte) (*Expander, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return &Expander{block: block}, nil
}

// Expand writes the expansion of seed to dst. dst and seed may alias.
func (e *Expander) Expand(dst, seed *[16]byte) {
	e.block.Encrypt(dst[:], seed[:])
}

// AESExpandBlock returns the AES-128 encryption of seed under key. It does not
// allocate.
func AESExpandBlock(seed, key *[16]byte) [16]byte {
	var ks KeySchedule
	ks.Init(key)
	var out [16]byte
	ks.Encrypt(&out, seed)
	return out
}
