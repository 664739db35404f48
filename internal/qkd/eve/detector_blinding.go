package eve

import (
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

type detectorBlindingStats struct {
	blinded int
}

func (s detectorBlindingStats) Kind() AttackType      { return DetectorBlinding }
func (s detectorBlindingStats) Touched() int          { return s.blinded }
func (s detectorBlindingStats) ErrorsIntroduced() int { return s.blinded }
func (s detectorBlindingStats) ExpectedQBER() string  { return "15-20%" }
func (s detectorBlindingStats) DetectionDifficulty() string {
	return "medium — unusual detector behavior"
}
func (s detectorBlindingStats) MarshalJSON() ([]byte, error) { return marshalStats(s) }

// detectorBlinding replaces a fraction of photons with a uniformly
// random fake bit, independent of basis (spec.md §4.4.4).
func detectorBlinding(src rng.Source, photons []quantum.Photon, intensity float64) ([]quantum.Photon, Stats) {
	blindRate := intensity * 0.8
	out := make([]quantum.Photon, len(photons))
	stats := detectorBlindingStats{}

	for i, p := range photons {
		if src.Float64() >= blindRate {
			out[i] = p
			continue
		}

		stats.blinded++
		p.Intercepted = true
		fakeBit := quantum.RandomBit(src)
		out[i] = p.Resend(fakeBit, p.PrepBasis)
	}

	return out, stats
}
