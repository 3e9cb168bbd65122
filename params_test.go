package uhash

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.Version != AlgorithmVersion || p.Chains != Chains || p.Rounds != Rounds {
		t.Errorf("DefaultParams() = %+v", p)
	}
	if p.BlocksPerScratchpad&(p.BlocksPerScratchpad-1) != 0 {
		t.Errorf("BlocksPerScratchpad = %d is not a power of two", p.BlocksPerScratchpad)
	}
	if got := p.MemorySize(); got != 2<<20 {
		t.Errorf("MemorySize() = %d, want %d", got, 2<<20)
	}
	if ScratchpadSize != 512<<10 {
		t.Errorf("ScratchpadSize = %d, want %d", ScratchpadSize, 512<<10)
	}
}

func TestParamsCompatible(t *testing.T) {
	p := DefaultParams()
	if err := p.Compatible(DefaultParams()); err != nil {
		t.Errorf("Compatible(DefaultParams()) error = %v", err)
	}

	other := p
	other.BlocksPerScratchpad *= 2
	if err := p.Compatible(other); !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("Compatible(other) error = %v, want ErrVersionMismatch", err)
	}
}

func TestParamsJSON(t *testing.T) {
	data, err := json.Marshal(DefaultParams())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"version":4,"chains":4,"rounds":12288,"blocks_per_scratchpad":8192,"block_size":64}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
