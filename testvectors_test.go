package uhash

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := New(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// TestTestVectorsRoundTrip generates a suite, writes it out and verifies it again.
func TestTestVectorsRoundTrip(t *testing.T) {
	h := newTestHasher(t)

	names := []string{"empty", "text", "mining"}
	inputs := [][]byte{{}, []byte("test input"), miningInput(0, 1, 0, 0)}

	suite, err := GenerateTestVectors(h, names, inputs)
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), suite.Params)
	assert.Equal(t, DefaultParams().String(), suite.Version)
	require.Len(t, suite.Vectors, len(inputs))

	path := filepath.Join(t.TempDir(), "vectors.json")
	require.NoError(t, suite.Save(path))

	loaded, err := LoadTestVectors(path)
	require.NoError(t, err)
	assert.Equal(t, suite, loaded)
	assert.NoError(t, loaded.Verify(h))

	for i, tv := range loaded.Vectors {
		input, err := tv.GetInput()
		require.NoError(t, err)
		assert.Equal(t, len(inputs[i]), len(input), tv.Name)

		expected, err := tv.GetExpected()
		require.NoError(t, err)
		digest := Hash(inputs[i])
		assert.Equal(t, digest[:], expected, tv.Name)
	}
}

func TestTestVectorsGenerateMismatch(t *testing.T) {
	h := newTestHasher(t)
	_, err := GenerateTestVectors(h, []string{"a", "b"}, [][]byte{{1}})
	assert.Error(t, err)
}

func TestTestVectorsVerifyDetectsWrongDigest(t *testing.T) {
	h := newTestHasher(t)

	suite, err := GenerateTestVectors(h, []string{"text"}, [][]byte{[]byte("abc")})
	require.NoError(t, err)

	expected, err := suite.Vectors[0].GetExpected()
	require.NoError(t, err)
	expected[0] ^= 1
	suite.Vectors[0].Expected = hex.EncodeToString(expected)

	assert.ErrorContains(t, suite.Verify(h), `vector "text"`)
}

func TestTestVectorsVersionMismatch(t *testing.T) {
	h := newTestHasher(t)

	suite := &TestVectorSuite{Params: DefaultParams()}
	suite.Params.Version = AlgorithmVersion - 1
	assert.ErrorIs(t, suite.Verify(h), ErrVersionMismatch)

	suite.Params = DefaultParams()
	suite.Params.Rounds++
	assert.ErrorIs(t, suite.Verify(h), ErrVersionMismatch)
}

func TestTestVectorsClosedHasher(t *testing.T) {
	h, err := New(Config{})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = GenerateTestVectors(h, nil, nil)
	assert.ErrorIs(t, err, errClosed)

	suite := &TestVectorSuite{Params: DefaultParams()}
	assert.ErrorIs(t, suite.Verify(h), errClosed)
}

func TestLoadTestVectorsErrors(t *testing.T) {
	_, err := LoadTestVectors(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte("{invalid json}"), 0o644))
	_, err = LoadTestVectors(path)
	assert.Error(t, err)
}

func TestTestVectorGetInput(t *testing.T) {
	tests := []struct {
		name    string
		tv      TestVector
		want    []byte
		wantErr bool
	}{
		{"string_input", TestVector{Input: "test"}, []byte("test"), false},
		{"hex_input", TestVector{InputHex: "deadbeef"}, []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"hex_takes_precedence", TestVector{Input: "x", InputHex: "01"}, []byte{0x01}, false},
		{"invalid_hex", TestVector{InputHex: "zz"}, nil, true},
		{"empty", TestVector{}, []byte{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tv.GetInput()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTestVectorGetExpected(t *testing.T) {
	valid := TestVector{Expected: "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"}
	got, err := valid.GetExpected()
	require.NoError(t, err)
	assert.Len(t, got, DigestSize)

	_, err = (&TestVector{Expected: "0011"}).GetExpected()
	assert.Error(t, err, "short digest")

	_, err = (&TestVector{Expected: "not hex"}).GetExpected()
	assert.Error(t, err, "bad hex")
}

// testdata/uhash_vectors.json pins digests computed independently of this
// package. Every hasher configuration must reproduce them.
func TestKnownAnswerVectors(t *testing.T) {
	suite, err := LoadTestVectors(filepath.Join("testdata", "uhash_vectors.json"))
	require.NoError(t, err)
	require.Len(t, suite.Vectors, 6)
	assert.Equal(t, DefaultParams(), suite.Params)
	assert.Equal(t, DefaultParams().String(), suite.Version)

	configs := map[string]Config{
		"software":        {},
		"aes":             {Flags: FlagAES},
		"parallel":        {Flags: FlagParallel},
		"aes_two_workers": {Flags: FlagAES | FlagParallel, Workers: 2},
	}
	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			h, err := New(config)
			require.NoError(t, err)
			defer h.Close()
			assert.NoError(t, suite.Verify(h))
		})
	}

	// The one-shot function and the mining input encoding agree with the file.
	expected, err := suite.Vectors[0].GetExpected()
	require.NoError(t, err)
	digest := Hash(miningInput(0, 1, 0, 0))
	assert.Equal(t, expected, digest[:])
	assert.Equal(t, "b4fd019db5e70c2c64f64050120182ec20a770057da14aa7a07ee49b1f398193",
		hex.EncodeToString(digest[:]))
}
