// Package amplify implements the truncation-based privacy amplification
// stand-in used by the core pipeline (spec.md §4.7). It deliberately
// does not hash: shrinking the key by a QBER-dependent factor is a
// placeholder for a real universal-hash amplifier, which lives in the
// AES collaborator's key-derivation step instead.
package amplify

import (
	"github.com/satqkd/bb84sim/internal/qkd/qber"
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
)

// Result is the output of the amplify stage.
type Result struct {
	FinalKey     []quantum.Bit
	FinalKeyHex  string
	ShrinkFactor float64
	InputLength  int
	OutputLength int
	Aborted      bool
}

// shrinkFactor maps a security level to the fraction of the sifted key
// retained after truncation (spec.md §4.7).
func shrinkFactor(level qber.SecurityLevel) float64 {
	switch level {
	case qber.Secure:
		return 0.9
	case qber.Acceptable:
		return 0.7
	case qber.Suspicious:
		return 0.5
	default:
		return 0
	}
}

// Apply truncates siftedKey to floor(len*shrinkFactor) bits, with a
// floor of 1 bit (never more than the input length, so an empty key
// stays empty) unless the security level is ABORT, in which case no
// key is released.
func Apply(siftedKey []quantum.Bit, level qber.SecurityLevel) Result {
	factor := shrinkFactor(level)
	if factor == 0 {
		return Result{
			InputLength: len(siftedKey),
			Aborted:     true,
		}
	}

	outLen := int(float64(len(siftedKey)) * factor)
	if outLen < 1 {
		outLen = 1
	}
	if outLen > len(siftedKey) {
		outLen = len(siftedKey)
	}

	finalKey := siftedKey[:outLen]
	return Result{
		FinalKey:     finalKey,
		FinalKeyHex:  quantum.BitsToHex(finalKey),
		ShrinkFactor: factor,
		InputLength:  len(siftedKey),
		OutputLength: outLen,
	}
}
