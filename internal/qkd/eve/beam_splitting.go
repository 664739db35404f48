package eve

import (
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

type beamSplittingStats struct {
	tapped int
}

func (s beamSplittingStats) Kind() AttackType            { return BeamSplitting }
func (s beamSplittingStats) Touched() int                { return s.tapped }
func (s beamSplittingStats) ErrorsIntroduced() int       { return 0 }
func (s beamSplittingStats) ExpectedQBER() string        { return "near baseline" }
func (s beamSplittingStats) DetectionDifficulty() string { return "hard — looks like normal loss" }
func (s beamSplittingStats) MarshalJSON() ([]byte, error) { return marshalStats(s) }

// beamSplitting passively taps a fraction of the photons and drops
// them, introducing no bit errors — it shows up purely as elevated
// loss (spec.md §4.4.2).
func beamSplitting(src rng.Source, photons []quantum.Photon, intensity float64) ([]quantum.Photon, Stats) {
	tapRate := intensity * 0.6
	out := make([]quantum.Photon, 0, len(photons))
	stats := beamSplittingStats{}

	for _, p := range photons {
		if src.Float64() < tapRate {
			stats.tapped++
			continue
		}
		out = append(out, p)
	}

	return out, stats
}
