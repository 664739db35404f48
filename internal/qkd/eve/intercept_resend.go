package eve

import (
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

type interceptResendStats struct {
	intercepted      int
	errorsIntroduced int
}

func (s interceptResendStats) Kind() AttackType            { return InterceptResend }
func (s interceptResendStats) Touched() int                { return s.intercepted }
func (s interceptResendStats) ErrorsIntroduced() int       { return s.errorsIntroduced }
func (s interceptResendStats) ExpectedQBER() string        { return "~25%" }
func (s interceptResendStats) DetectionDifficulty() string { return "easy" }
func (s interceptResendStats) MarshalJSON() ([]byte, error) { return marshalStats(s) }

// interceptResend measures each intercepted photon in a random basis
// and resends a freshly prepared photon, introducing errors whenever
// Eve's basis mismatches the sender's (spec.md §4.4.1).
func interceptResend(src rng.Source, photons []quantum.Photon, senderBases []quantum.Basis, intensity float64) ([]quantum.Photon, Stats) {
	out := make([]quantum.Photon, len(photons))
	stats := interceptResendStats{}

	for i, p := range photons {
		if src.Float64() >= intensity {
			out[i] = p
			continue
		}

		stats.intercepted++
		p.Intercepted = true
		eveBasis := quantum.RandomBasis(src)
		measured, matched := quantum.Measure(src, p.Bit, senderBases[i], eveBasis)

		resendBit := measured
		if !matched && src.Float64() < 0.5 {
			resendBit = measured.Flip()
			stats.errorsIntroduced++
		}
		out[i] = p.Resend(resendBit, eveBasis)
	}

	return out, stats
}
