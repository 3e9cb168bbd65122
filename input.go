package uhash

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MiningInputSize is the length of the canonical mining input.
const MiningInputSize = 32 + 20 + 8 + NonceSize

// ErrInvalidInputLength is returned when decoding a mining input of the wrong size.
var ErrInvalidInputLength = errors.New("uhash: invalid mining input length")

// SplitInput splits input into its header and nonce. The trailing NonceSize bytes
// are the little-endian nonce; everything before them is the header.
//
// Inputs shorter than NonceSize have an empty header, and the missing leading
// nonce bytes are taken as zero.
func SplitInput(input []byte) (header []byte, nonce uint64) {
	if n := len(input) - NonceSize; n >= 0 {
		return input[:n], binary.LittleEndian.Uint64(input[n:])
	}

	var buf [NonceSize]byte
	copy(buf[NonceSize-len(input):], input)
	return input[:0], binary.LittleEndian.Uint64(buf[:])
}

// PutNonce overwrites the trailing nonce of input in place.
// input must be at least NonceSize bytes long.
func PutNonce(input []byte, nonce uint64) {
	if len(input) < NonceSize {
		panic("uhash: PutNonce input shorter than nonce")
	}
	binary.LittleEndian.PutUint64(input[len(input)-NonceSize:], nonce)
}

// MiningInput is the canonical producer format for hash inputs: the epoch seed,
// the miner's address, a timestamp and the nonce. The hash function itself only
// relies on the nonce being last.
type MiningInput struct {
	EpochSeed [32]byte
	Address   [20]byte
	Timestamp uint64
	Nonce     uint64
}

// AppendBinary appends the 68-byte encoding of m to b. The timestamp and nonce
// are little-endian.
func (m *MiningInput) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, m.EpochSeed[:]...)
	b = append(b, m.Address[:]...)
	b = binary.LittleEndian.AppendUint64(b, m.Timestamp)
	b = binary.LittleEndian.AppendUint64(b, m.Nonce)
	return b, nil
}

// MarshalBinary returns the 68-byte encoding of m.
func (m *MiningInput) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, MiningInputSize))
}

// UnmarshalBinary decodes a 68-byte mining input.
func (m *MiningInput) UnmarshalBinary(data []byte) error {
	if len(data) != MiningInputSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidInputLength, len(data), MiningInputSize)
	}
	copy(m.EpochSeed[:], data[0:32])
	copy(m.Address[:], data[32:52])
	m.Timestamp = binary.LittleEndian.Uint64(data[52:60])
	m.Nonce = binary.LittleEndian.Uint64(data[60:68])
	return nil
}
