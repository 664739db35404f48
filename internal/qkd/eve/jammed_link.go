package eve

import (
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

const jammedLossRate = 0.6

type jammedLinkStats struct {
	lost   int
	errors int
}

func (s jammedLinkStats) Kind() AttackType            { return JammedLink }
func (s jammedLinkStats) Touched() int                { return s.lost + s.errors }
func (s jammedLinkStats) ErrorsIntroduced() int       { return s.errors }
func (s jammedLinkStats) ExpectedQBER() string        { return ">40%" }
func (s jammedLinkStats) DetectionDifficulty() string { return "trivial — protocol aborts" }
func (s jammedLinkStats) MarshalJSON() ([]byte, error) { return marshalStats(s) }

// jammedLink floods the channel with noise regardless of intensity:
// 60% of photons are lost outright, and survivors have a 50% chance of
// a flipped bit (spec.md §4.4.5). Expected to drive the protocol to
// the ABORT security level.
func jammedLink(src rng.Source, photons []quantum.Photon) ([]quantum.Photon, Stats) {
	out := make([]quantum.Photon, 0, len(photons))
	stats := jammedLinkStats{}

	for _, p := range photons {
		if src.Float64() < jammedLossRate {
			stats.lost++
			continue
		}
		if src.Float64() < 0.5 {
			p.Bit = p.Bit.Flip()
			p.State = quantum.EncodeState(p.Bit, p.PrepBasis)
			stats.errors++
		}
		out = append(out, p)
	}

	return out, stats
}
