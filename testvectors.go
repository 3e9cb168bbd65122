package uhash

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// TestVector is a single known-answer test case. Vectors are exchanged between
// implementations to check that they agree on every digest.
type TestVector struct {
	Name     string `json:"name"`
	Input    string `json:"input,omitempty"`
	InputHex string `json:"input_hex,omitempty"` // Alternative hex-encoded input
	Expected string `json:"expected"`            // Hex-encoded expected digest
}

// TestVectorSuite contains test vectors together with the parameter set that
// produced them.
type TestVectorSuite struct {
	Version     string       `json:"version"`
	Description string       `json:"description,omitempty"`
	Params      Params       `json:"params"`
	Vectors     []TestVector `json:"vectors"`
}

// LoadTestVectors loads test vectors from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadTestVectors(path string) (*TestVectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test vectors: %w", err)
	}

	var suite TestVectorSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse test vectors: %w", err)
	}

	return &suite, nil
}

// GenerateTestVectors hashes each named input with h and returns a suite tagged with
// h's parameter set.
func GenerateTestVectors(h *Hasher, names []string, inputs [][]byte) (*TestVectorSuite, error) {
	if len(names) != len(inputs) {
		return nil, fmt.Errorf("uhash: %d names for %d inputs", len(names), len(inputs))
	}
	if !h.IsReady() {
		return nil, errClosed
	}

	params := h.Params()
	suite := &TestVectorSuite{
		Version: params.String(),
		Params:  params,
		Vectors: make([]TestVector, len(inputs)),
	}
	for i, input := range inputs {
		digest := h.Hash(input)
		suite.Vectors[i] = TestVector{
			Name:     names[i],
			InputHex: hex.EncodeToString(input),
			Expected: hex.EncodeToString(digest[:]),
		}
	}
	return suite, nil
}

// Save writes the suite to path as indented JSON.
func (s *TestVectorSuite) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode test vectors: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write test vectors: %w", err)
	}
	return nil
}

// Verify checks that the suite was produced under h's parameter set and that h
// reproduces every expected digest.
func (s *TestVectorSuite) Verify(h *Hasher) error {
	if !h.IsReady() {
		return errClosed
	}
	if err := h.Params().Compatible(s.Params); err != nil {
		return err
	}

	for i := range s.Vectors {
		tv := &s.Vectors[i]
		input, err := tv.GetInput()
		if err != nil {
			return fmt.Errorf("vector %q: %w", tv.Name, err)
		}
		expected, err := tv.GetExpected()
		if err != nil {
			return fmt.Errorf("vector %q: %w", tv.Name, err)
		}
		if got := h.Hash(input); subtle.ConstantTimeCompare(got[:], expected) != 1 {
			return fmt.Errorf("vector %q: digest %x, want %x", tv.Name, got, expected)
		}
	}
	return nil
}

// GetInput returns the decoded input bytes for a test vector.
// If InputHex is set, it decodes from hex, otherwise uses Input as UTF-8.
func (tv *TestVector) GetInput() ([]byte, error) {
	if tv.InputHex != "" {
		input, err := hex.DecodeString(tv.InputHex)
		if err != nil {
			return nil, fmt.Errorf("invalid input hex: %w", err)
		}
		return input, nil
	}
	return []byte(tv.Input), nil
}

// GetExpected returns the decoded expected digest bytes.
func (tv *TestVector) GetExpected() ([]byte, error) {
	expected, err := hex.DecodeString(tv.Expected)
	if err != nil {
		return nil, fmt.Errorf("invalid expected hash: %w", err)
	}
	if len(expected) != DigestSize {
		return nil, fmt.Errorf("expected hash must be %d bytes, got %d", DigestSize, len(expected))
	}
	return expected, nil
}
