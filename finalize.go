package uhash

import (
	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
)

// finalize folds the final chain states into the digest:
// BLAKE3(SHA256(state[0] ^ state[1] ^ ... ^ state[Chains-1])).
func finalize(chains *[Chains]chain) [DigestSize]byte {
	var acc [32]byte
	for c := range chains {
		for i := range acc {
			acc[i] ^= chains[c].state[i]
		}
	}

	inner := sha256.Sum256(acc[:])
	return blake3.Sum256(inner[:])
}
