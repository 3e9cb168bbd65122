package uhash

import (
	"bytes"
	"math/bits"
)

// LeadingZeroBits counts the zero bits at the start of digest, scanning from the most
// significant bit of byte 0.
func LeadingZeroBits(digest [DigestSize]byte) int {
	for i, b := range digest {
		if b != 0 {
			return i*8 + bits.LeadingZeros8(b)
		}
	}
	return DigestSize * 8
}

// MeetsDifficulty reports whether digest starts with at least difficulty zero bits.
// A difficulty of 0 is always met; a difficulty above 256 never is.
func MeetsDifficulty(digest [DigestSize]byte, difficulty uint32) bool {
	if difficulty > DigestSize*8 {
		return false
	}
	return uint32(LeadingZeroBits(digest)) >= difficulty
}

// Target returns the largest digest that meets difficulty, for callers that compare
// digests against a big-endian target instead of counting bits. Difficulties of
// 256 and above give the all-zero target.
func Target(difficulty uint32) [DigestSize]byte {
	var target [DigestSize]byte
	if difficulty >= DigestSize*8 {
		return target
	}

	full, rem := difficulty/8, difficulty%8
	target[full] = 0xFF >> rem
	for i := full + 1; i < DigestSize; i++ {
		target[i] = 0xFF
	}
	return target
}

// MeetsTarget reports whether digest <= target as big-endian integers.
func MeetsTarget(digest, target [DigestSize]byte) bool {
	return bytes.Compare(digest[:], target[:]) <= 0
}
