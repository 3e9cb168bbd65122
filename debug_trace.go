package uhash

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// debugEnabled controls whether debug tracing is enabled via UHASH_DEBUG env var
var debugEnabled = os.Getenv("UHASH_DEBUG") == "1"

// traceLogger receives trace output. It is a dedicated logger so enabling tracing
// does not change the level of the application's standard logger.
var traceLogger = newTraceLogger()

func newTraceLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// traceChain logs a chain's seed, state and a fingerprint of its scratchpad.
func traceChain(stage string, ch *chain) {
	if !debugEnabled {
		return
	}
	traceLogger.WithFields(logrus.Fields{
		"chain": ch.index,
		"seed":  hex.EncodeToString(ch.seed[:]),
		"state": hex.EncodeToString(ch.state[:]),
		"pad":   fmt.Sprintf("%016x", xxh3.Hash(ch.pad)),
	}).Debug(stage)
}

// traceDigest logs the final digest of an input.
func traceDigest(input []byte, digest *[DigestSize]byte) {
	if !debugEnabled {
		return
	}
	header, nonce := SplitInput(input)
	traceLogger.WithFields(logrus.Fields{
		"header_len": len(header),
		"nonce":      nonce,
		"digest":     hex.EncodeToString(digest[:]),
		"zero_bits":  LeadingZeroBits(*digest),
	}).Debug("digest")
}
