package eve

import (
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

const multiPhotonRate = 0.15

type pnsStats struct {
	exploited int
	errors    int
}

func (s pnsStats) Kind() AttackType            { return PhotonNumberSplitting }
func (s pnsStats) Touched() int                { return s.exploited }
func (s pnsStats) ErrorsIntroduced() int       { return s.errors }
func (s pnsStats) ExpectedQBER() string        { return "3-7%" }
func (s pnsStats) DetectionDifficulty() string { return "very hard" }
func (s pnsStats) MarshalJSON() ([]byte, error) { return marshalStats(s) }

// photonNumberSplitting exploits the fraction of pulses carrying more
// than one photon: Eve measures a split copy without disturbing Bob's
// photon, except for a small disturbance probability when her basis
// guess is wrong (spec.md §4.4.3).
func photonNumberSplitting(src rng.Source, photons []quantum.Photon, senderBases []quantum.Basis) ([]quantum.Photon, Stats) {
	out := make([]quantum.Photon, len(photons))
	stats := pnsStats{}

	for i, p := range photons {
		if src.Float64() >= multiPhotonRate {
			out[i] = p
			continue
		}

		stats.exploited++
		p.Intercepted = true
		eveBasis := quantum.RandomBasis(src)
		if eveBasis != senderBases[i] && src.Float64() < 0.1 {
			p.Bit = p.Bit.Flip()
			p.State = quantum.EncodeState(p.Bit, p.PrepBasis)
			stats.errors++
		}
		out[i] = p
	}

	return out, stats
}
