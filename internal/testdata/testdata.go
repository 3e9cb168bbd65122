// Package testdata provides a deterministic random bit generator for tests and fuzz
// corpora.
package testdata

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// DRBG is a deterministic random bit generator based on the BLAKE2b XOF.
type DRBG struct {
	xof blake2b.XOF
}

// New returns a new DRBG initialized with the given customization string.
func New(customization string) *DRBG {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, nil)
	if err != nil {
		panic("testdata: blake2b xof: " + err.Error())
	}
	_, _ = xof.Write([]byte(customization))
	return &DRBG{xof: xof}
}

// Data returns n bytes of deterministic data.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.xof.Read(b)
	return b
}

// Uint64 returns the next 8 bytes as a little-endian integer.
func (d *DRBG) Uint64() uint64 {
	return binary.LittleEndian.Uint64(d.Data(8))
}

// Intn returns a value in [0, n).
func (d *DRBG) Intn(n int) int {
	return int(d.Uint64() % uint64(n))
}
