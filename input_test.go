package uhash

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitInput(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		wantHeader []byte
		wantNonce  uint64
	}{
		{"empty", nil, []byte{}, 0},
		{"short", []byte{1, 2, 3}, []byte{}, 0x0302010000000000},
		{"nonce only", []byte{1, 0, 0, 0, 0, 0, 0, 0}, []byte{}, 1},
		{"header and nonce", []byte{0xAA, 0xBB, 0xFF, 0, 0, 0, 0, 0, 0, 0x80}, []byte{0xAA, 0xBB}, 0x80000000000000FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, nonce := SplitInput(tt.input)
			if !bytes.Equal(header, tt.wantHeader) {
				t.Errorf("header = %x, want %x", header, tt.wantHeader)
			}
			if nonce != tt.wantNonce {
				t.Errorf("nonce = %#x, want %#x", nonce, tt.wantNonce)
			}
		})
	}
}

// A short input and its zero-padded 8-byte form describe the same (header, nonce)
// pair, so they hash identically.
func TestShortInputPadding(t *testing.T) {
	short := []byte{1, 2, 3}
	padded := []byte{0, 0, 0, 0, 0, 1, 2, 3}
	if a, b := Hash(short), Hash(padded); a != b {
		t.Errorf("short input %x, padded %x", a, b)
	}
}

func TestPutNonce(t *testing.T) {
	input := []byte("header--------")
	PutNonce(input, 0x0102030405060708)

	header, nonce := SplitInput(input)
	if string(header) != "header" {
		t.Errorf("header = %q, want %q", header, "header")
	}
	if nonce != 0x0102030405060708 {
		t.Errorf("nonce = %#x", nonce)
	}

	defer func() {
		if recover() == nil {
			t.Error("PutNonce on a short input should panic")
		}
	}()
	PutNonce(make([]byte, 4), 1)
}

func TestMiningInput(t *testing.T) {
	m := MiningInput{Timestamp: 0x1122334455667788, Nonce: 42}
	m.EpochSeed[0] = 0xAB
	m.Address[19] = 0xCD

	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != MiningInputSize {
		t.Fatalf("encoded length = %d, want %d", len(data), MiningInputSize)
	}
	if data[0] != 0xAB || data[51] != 0xCD || data[52] != 0x88 || data[59] != 0x11 {
		t.Errorf("unexpected layout: %x", data)
	}

	header, nonce := SplitInput(data)
	if nonce != 42 {
		t.Errorf("nonce = %d, want 42", nonce)
	}
	if len(header) != MiningInputSize-NonceSize {
		t.Errorf("header length = %d", len(header))
	}

	var decoded MiningInput
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if decoded != m {
		t.Errorf("decoded %+v, want %+v", decoded, m)
	}

	if err := decoded.UnmarshalBinary(data[:10]); !errors.Is(err, ErrInvalidInputLength) {
		t.Errorf("UnmarshalBinary(short) error = %v, want ErrInvalidInputLength", err)
	}

	appended, _ := m.AppendBinary([]byte("prefix"))
	if !bytes.Equal(appended[6:], data) {
		t.Error("AppendBinary should append the same encoding")
	}
}
