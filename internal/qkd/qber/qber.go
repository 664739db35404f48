// Package qber measures the quantum bit error rate on a sample of the
// sifted key and classifies the resulting security posture
// (spec.md §4.6).
package qber

import (
	"math"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

// SecurityLevel is the BB84 verdict derived from the measured QBER.
type SecurityLevel string

const (
	Secure     SecurityLevel = "SECURE"
	Acceptable SecurityLevel = "ACCEPTABLE"
	Suspicious SecurityLevel = "SUSPICIOUS"
	Abort      SecurityLevel = "ABORT"
)

// classify applies the fixed QBER bands of spec.md §4.6.
func classify(qber float64) (SecurityLevel, string, bool) {
	switch {
	case qber < 5:
		return Secure, "normal atmospheric noise levels", true
	case qber < 11:
		return Acceptable, "slightly elevated error rate, within acceptable bounds", true
	case qber < 15:
		return Suspicious, "high error rate detected — possible eavesdropping", false
	default:
		return Abort, "critical: error rate too high — eavesdropper suspected", false
	}
}

// Analysis is the spec.md §3 ErrorAnalysis record.
type Analysis struct {
	QBERPercent           float64
	Errors                int
	TestedBits            int
	TestedIndices         []int
	BasisMatchCount       int
	BasisMatchRatePercent float64
	SecurityLevel         SecurityLevel
	Assessment            string
	SafeToUse             bool
	// TheoreticalSecureBits is an informational estimate from the
	// leftover-hash-lemma (see DESIGN.md); it does not drive the
	// spec-mandated truncation-based amplify stage.
	TheoreticalSecureBits int
}

// Estimate samples the sifted key per spec.md §4.6: sample size is
// max(10, |matching|/2) clamped to |matching|, drawn without
// replacement. errors==0 forces the dark-count floor of
// max(0.5, 100/sampleSize) percent.
func Estimate(src rng.Source, aliceBits []quantum.Bit, measuredBits []quantum.MeasuredBit, matchingIndices []int, numBits int) Analysis {
	matchCount := len(matchingIndices)
	basisMatchRate := 0.0
	if numBits > 0 {
		basisMatchRate = round2(float64(matchCount) / float64(numBits) * 100)
	}

	if matchCount == 0 {
		level, assessment, safe := classify(0)
		return Analysis{
			SecurityLevel:         level,
			Assessment:            assessment,
			SafeToUse:             safe,
			BasisMatchRatePercent: basisMatchRate,
		}
	}

	sampleSize := matchCount / 2
	if sampleSize < 10 {
		sampleSize = 10
	}
	if sampleSize > matchCount {
		sampleSize = matchCount
	}

	perm := src.Perm(matchCount)
	testedIndices := make([]int, sampleSize)
	for i := 0; i < sampleSize; i++ {
		testedIndices[i] = matchingIndices[perm[i]]
	}

	errors := 0
	for _, idx := range testedIndices {
		if aliceBits[idx] != quantum.Bit(measuredBits[idx]) {
			errors++
		}
	}

	qberPercent := float64(errors) / float64(sampleSize) * 100
	if errors == 0 && sampleSize > 0 {
		qberPercent = math.Max(0.5, 100.0/float64(sampleSize))
	}

	level, assessment, safe := classify(qberPercent)
	secureBits := theoreticalSecureBits(matchCount, qberPercent/100, sampleSize)

	return Analysis{
		QBERPercent:           round2(qberPercent),
		Errors:                errors,
		TestedBits:            sampleSize,
		TestedIndices:         testedIndices,
		BasisMatchCount:       matchCount,
		BasisMatchRatePercent: basisMatchRate,
		SecurityLevel:         level,
		Assessment:            assessment,
		SafeToUse:             safe,
		TheoreticalSecureBits: secureBits,
	}
}

// theoreticalSecureBits applies the leftover hash lemma: secure length
// = raw length - Shannon leakage (binary entropy of QBER) - disclosed
// sample bits - a 64-bit security parameter. Adapted from the teacher's
// CalculateSecureKeyLength, using math.Log2 instead of a hand-rolled
// series expansion (see DESIGN.md).
func theoreticalSecureBits(rawLength int, qber float64, disclosedBits int) int {
	const securityParameter = 64
	leakage := int(binaryEntropy(qber) * float64(rawLength))
	secure := rawLength - leakage - disclosedBits - securityParameter
	if secure < 0 {
		return 0
	}
	return secure
}

func binaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
