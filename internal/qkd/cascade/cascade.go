// Package cascade implements Cascade interactive error correction as an
// optional reconciliation mode (spec.md §4 keeps the default oracle
// model; SPEC_FULL.md §4.11 supplements it with this real mode,
// selectable via protocol.RunConfig.ReconciliationMode). Unlike the
// core pipeline's single-shot oracle, Cascade discloses classical
// parity bits over several passes, so every pass is tracked as a
// PassStat the driver can fold into a Trace for observability.
package cascade

import (
	"fmt"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
)

// Corrector runs the Cascade algorithm between a reference key (Alice's)
// and a noisy key (Bob's).
type Corrector struct {
	passes    int
	blockSize int
	errorRate float64
}

// New builds a Corrector sized for an estimated error rate, using the
// standard Cascade block-size heuristic (0.73/errorRate).
func New(errorRate float64) *Corrector {
	blockSize := 1
	if errorRate > 0 {
		blockSize = int(0.73 / errorRate)
		if blockSize < 1 {
			blockSize = 1
		}
	}

	return &Corrector{
		passes:    4,
		blockSize: blockSize,
		errorRate: errorRate,
	}
}

// span is a contiguous range of the key checked for a parity mismatch.
type span struct {
	start, end int
}

// Parity returns the XOR parity of a slice of bits.
func Parity(bits []quantum.Bit) quantum.Bit {
	parity := quantum.Zero
	for _, bit := range bits {
		parity ^= bit
	}
	return parity
}

// PassStat records what one Cascade pass cost and found, for a caller
// that wants reconciliation observability rather than just a final key.
type PassStat struct {
	BlockSize      int
	Blocks         int
	MismatchedRuns int
	Corrections    int
	DisclosedBits  int
}

// Result is the outcome of a full Cascade reconciliation.
type Result struct {
	CorrectedKey  []quantum.Bit
	DisclosedBits int
	Passes        []PassStat
}

// LeakedFraction reports the share of the key length consumed by
// classical disclosure (Shannon's theorem: leaked information equals
// disclosed bits).
func (r Result) LeakedFraction(keyLength int) float64 {
	return InformationLeakage(r.DisclosedBits, keyLength)
}

// Correct reconciles bobKey against aliceKey over c.passes Cascade
// passes, doubling the block size each pass. Within a mismatched block
// it repeatedly bisects and flips until the block's parity agrees
// again, rather than stopping after one flip — a block can carry more
// than one error once earlier passes have already perturbed it.
func (c *Corrector) Correct(aliceKey, bobKey []quantum.Bit) (Result, error) {
	if len(aliceKey) != len(bobKey) {
		return Result{}, fmt.Errorf("cascade: keys must have equal length, got %d and %d", len(aliceKey), len(bobKey))
	}

	keyLength := len(aliceKey)
	corrected := make([]quantum.Bit, keyLength)
	copy(corrected, bobKey)

	result := Result{Passes: make([]PassStat, 0, c.passes)}
	blockSize := c.blockSize

	for pass := 0; pass < c.passes; pass++ {
		spans := partition(keyLength, blockSize)
		stat := PassStat{BlockSize: blockSize, Blocks: len(spans)}

		for _, s := range spans {
			stat.DisclosedBits++
			if Parity(aliceKey[s.start:s.end]) == Parity(corrected[s.start:s.end]) {
				continue
			}
			stat.MismatchedRuns++

			for Parity(aliceKey[s.start:s.end]) != Parity(corrected[s.start:s.end]) {
				errIdx, used := c.binarySearch(aliceKey, corrected, s.start, s.end)
				stat.DisclosedBits += used
				if errIdx < 0 {
					break
				}
				corrected[errIdx] = corrected[errIdx].Flip()
				stat.Corrections++
			}
		}

		result.Passes = append(result.Passes, stat)
		result.DisclosedBits += stat.DisclosedBits
		blockSize *= 2
	}

	result.CorrectedKey = corrected
	return result, nil
}

// partition splits [0, keyLength) into consecutive spans of blockSize,
// the last one possibly shorter.
func partition(keyLength, blockSize int) []span {
	numBlocks := (keyLength + blockSize - 1) / blockSize
	spans := make([]span, numBlocks)
	for i := range spans {
		start := i * blockSize
		end := start + blockSize
		if end > keyLength {
			end = keyLength
		}
		spans[i] = span{start: start, end: end}
	}
	return spans
}

// binarySearch narrows [start, end) to the single index where aliceKey
// and bobKey disagree, disclosing one parity bit per halving.
func (c *Corrector) binarySearch(aliceKey, bobKey []quantum.Bit, start, end int) (int, int) {
	disclosed := 0

	for start < end-1 {
		mid := (start + end) / 2
		disclosed++

		if Parity(aliceKey[start:mid]) != Parity(bobKey[start:mid]) {
			end = mid
		} else {
			start = mid
		}
	}

	return start, disclosed
}

// VerifyMatch reports whether two keys are identical and, if not, their
// residual bit error rate.
func VerifyMatch(aliceKey, bobKey []quantum.Bit) (bool, float64) {
	if len(aliceKey) != len(bobKey) {
		return false, 1.0
	}

	errors := 0
	for i := range aliceKey {
		if aliceKey[i] != bobKey[i] {
			errors++
		}
	}

	return errors == 0, float64(errors) / float64(len(aliceKey))
}

// InformationLeakage reports the fraction of key bits disclosed during
// reconciliation, per Shannon's theorem.
func InformationLeakage(disclosedBits, keyLength int) float64 {
	if keyLength == 0 {
		return 0
	}
	return float64(disclosedBits) / float64(keyLength)
}
