// Package mining searches for nonces whose UniversalHash digest meets a difficulty
// target, using one hasher per worker goroutine.
package mining

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/go-uhash"
)

var (
	// ErrExhausted is returned when the hash budget runs out before a solution is found.
	ErrExhausted = errors.New("mining: hash budget exhausted")

	// ErrRunning is returned by Run while another Run on the same Miner is in progress.
	ErrRunning = errors.New("mining: search already running")
)

// Result describes a solution.
type Result struct {
	Worker  int
	Nonce   uint64
	Input   []byte
	Digest  [uhash.DigestSize]byte
	Hashes  uint64
	Elapsed time.Duration
}

// Hashrate returns the hashes per second achieved up to the solution.
func (r *Result) Hashrate() float64 {
	return uhash.Hashrate(uint32(min(r.Hashes, uint64(^uint32(0)))), r.Elapsed)
}

// Miner runs a nonce search.
type Miner struct {
	config  Config
	log     *logrus.Entry
	hashes  atomic.Uint64
	running atomic.Bool
}

// New creates a Miner. A nil logger uses the logrus standard logger.
func New(config Config, logger *logrus.Logger) (*Miner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Miner{
		config: config,
		log:    logger.WithField("component", "miner"),
	}, nil
}

// Hashes returns the number of hashes computed by the current or most recent Run.
func (m *Miner) Hashes() uint64 {
	return m.hashes.Load()
}

// Run searches until a solution is found, the hash budget is exhausted or ctx is
// done. The first solution found wins and stops the other workers.
//
// Each Run starts from StartNonce with a fresh hash count and budget. Runs on one
// Miner must not overlap; an overlapping call returns ErrRunning.
func (m *Miner) Run(ctx context.Context) (*Result, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrRunning
	}
	defer m.running.Store(false)
	m.hashes.Store(0)

	hashers := make([]*uhash.Hasher, 0, m.config.Workers)
	for i := 0; i < m.config.Workers; i++ {
		h, err := uhash.New(uhash.Config{Flags: uhash.DetectFlags()})
		if err != nil {
			for _, h := range hashers {
				h.Close()
			}
			return nil, err
		}
		hashers = append(hashers, h)
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.log.WithFields(logrus.Fields{
		"workers":    m.config.Workers,
		"difficulty": m.config.Difficulty,
		"start":      m.config.StartNonce,
		"params":     uhash.DefaultParams().String(),
	}).Info("starting search")

	start := time.Now()
	results := make(chan *Result, 1)

	var wg sync.WaitGroup
	for i, h := range hashers {
		wg.Add(1)
		go func(id int, h *uhash.Hasher) {
			defer wg.Done()
			defer h.Close()
			m.work(searchCtx, id, h, results)
		}(i, h)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	if m.config.ReportInterval > 0 {
		go m.report(searchCtx, start)
	}

	var res *Result
	select {
	case res = <-results:
		cancel()
		<-done
	case <-done:
		select {
		case res = <-results:
		default:
		}
	}

	elapsed := time.Since(start)
	if res == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.log.WithField("hashes", m.Hashes()).Warn("hash budget exhausted")
		return nil, ErrExhausted
	}

	res.Hashes = m.Hashes()
	res.Elapsed = elapsed
	m.log.WithFields(logrus.Fields{
		"worker":   res.Worker,
		"nonce":    res.Nonce,
		"digest":   hex.EncodeToString(res.Digest[:]),
		"hashes":   res.Hashes,
		"hashrate": res.Hashrate(),
	}).Info("solution found")
	return res, nil
}

// work scans this worker's nonce stride until it finds a solution, runs out of
// budget or ctx is done.
func (m *Miner) work(ctx context.Context, id int, h *uhash.Hasher, results chan<- *Result) {
	in := m.config.Input(0)
	input, _ := in.MarshalBinary()

	stride := uint64(m.config.Workers)
	nonce := m.config.StartNonce + uint64(id)

	var digest [uhash.DigestSize]byte
	for ctx.Err() == nil {
		if n := m.hashes.Add(1); m.config.MaxHashes > 0 && n > m.config.MaxHashes {
			m.hashes.Add(^uint64(0))
			return
		}

		uhash.PutNonce(input, nonce)
		h.HashTo(&digest, input)

		if uhash.MeetsDifficulty(digest, m.config.Difficulty) {
			res := &Result{
				Worker: id,
				Nonce:  nonce,
				Input:  append([]byte(nil), input...),
				Digest: digest,
			}
			select {
			case results <- res:
			default:
			}
			return
		}
		nonce += stride
	}
}

// report logs progress every ReportInterval until ctx is done.
func (m *Miner) report(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(m.config.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hashes := m.Hashes()
			elapsed := time.Since(start)
			m.log.WithFields(logrus.Fields{
				"hashes":   hashes,
				"hashrate": float64(hashes) / elapsed.Seconds(),
			}).Info("mining")
		}
	}
}

// Verify reports whether input hashes to a digest meeting difficulty. It is the
// cheap side of the proof of work: one hash.
func Verify(input []byte, difficulty uint32) bool {
	return uhash.MeetsDifficulty(uhash.Hash(input), difficulty)
}
