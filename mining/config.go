package mining

import (
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-uhash"
)

// Configuration keys understood by LoadConfig.
const (
	KeyEpochSeed      = "epoch_seed"
	KeyAddress        = "address"
	KeyTimestamp      = "timestamp"
	KeyDifficulty     = "difficulty"
	KeyWorkers        = "workers"
	KeyStartNonce     = "start_nonce"
	KeyMaxHashes      = "max_hashes"
	KeyReportInterval = "report_interval"
)

const defaultReportInterval = 5 * time.Second

// Config describes a mining search.
type Config struct {
	// EpochSeed and Address form the header of every input.
	EpochSeed [32]byte
	Address   [20]byte
	Timestamp uint64

	// Difficulty is the required number of leading zero bits, at most 256.
	Difficulty uint32

	// Workers is the number of goroutines searching in parallel. Each owns its own
	// hasher, so memory use is Workers * 2 MiB.
	Workers int

	// StartNonce is the first nonce tried. Worker i tries StartNonce+i,
	// StartNonce+i+Workers, and so on.
	StartNonce uint64

	// MaxHashes bounds the total number of hashes; zero means unlimited.
	MaxHashes uint64

	// ReportInterval is the period of progress log lines; zero disables them.
	ReportInterval time.Duration
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Difficulty > uhash.DigestSize*8 {
		return fmt.Errorf("mining: difficulty %d exceeds %d bits", c.Difficulty, uhash.DigestSize*8)
	}
	if c.Workers < 1 {
		return fmt.Errorf("mining: invalid worker count: %d", c.Workers)
	}
	if c.ReportInterval < 0 {
		return errors.New("mining: report interval must not be negative")
	}
	return nil
}

// Input returns the mining input for nonce.
func (c *Config) Input(nonce uint64) uhash.MiningInput {
	return uhash.MiningInput{
		EpochSeed: c.EpochSeed,
		Address:   c.Address,
		Timestamp: c.Timestamp,
		Nonce:     nonce,
	}
}

// SetDefaults registers default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEpochSeed, "")
	v.SetDefault(KeyAddress, "")
	v.SetDefault(KeyTimestamp, 0)
	v.SetDefault(KeyDifficulty, 16)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyStartNonce, 0)
	v.SetDefault(KeyMaxHashes, 0)
	v.SetDefault(KeyReportInterval, defaultReportInterval)
}

// LoadConfig reads a Config from v. The epoch seed and address are hex strings;
// empty values leave them zero.
func LoadConfig(v *viper.Viper) (Config, error) {
	var c Config

	if err := decodeHexInto(c.EpochSeed[:], v.GetString(KeyEpochSeed)); err != nil {
		return c, fmt.Errorf("mining: %s: %w", KeyEpochSeed, err)
	}
	if err := decodeHexInto(c.Address[:], v.GetString(KeyAddress)); err != nil {
		return c, fmt.Errorf("mining: %s: %w", KeyAddress, err)
	}

	c.Timestamp = v.GetUint64(KeyTimestamp)
	c.Difficulty = v.GetUint32(KeyDifficulty)
	c.Workers = v.GetInt(KeyWorkers)
	c.StartNonce = v.GetUint64(KeyStartNonce)
	c.MaxHashes = v.GetUint64(KeyMaxHashes)
	c.ReportInterval = v.GetDuration(KeyReportInterval)

	return c, c.Validate()
}

func decodeHexInto(dst []byte, s string) error {
	if s == "" {
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("got %d bytes, want %d", len(b), len(dst))
	}
	copy(dst, b)
	return nil
}
