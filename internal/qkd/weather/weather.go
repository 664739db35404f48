// Package weather applies a second, named-condition attenuation stage
// on top of whatever atmosphere already dropped (spec.md §4.3).
package weather

import (
	"math"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

// Condition is a named weather state affecting the free-space link.
type Condition string

const (
	Clear       Condition = "clear"
	LightHaze   Condition = "light_haze"
	HeavyClouds Condition = "heavy_clouds"
	Rain        Condition = "rain"
)

type factor struct {
	loss  float64
	error float64
}

var factors = map[Condition]factor{
	Clear:       {loss: 1.0, error: 1.0},
	LightHaze:   {loss: 1.3, error: 1.2},
	HeavyClouds: {loss: 2.5, error: 1.8},
	Rain:        {loss: 10.0, error: 3.0},
}

// Resolve maps an arbitrary string to a known Condition, falling back
// to Clear for anything unrecognized (spec.md §4.3: "unknown strings
// fall back to clear" — an UnknownTagFallback, not an error).
func Resolve(s string) Condition {
	c := Condition(s)
	if _, ok := factors[c]; ok {
		return c
	}
	return Clear
}

const maxLoss = 0.95

// Stats reports the weather stage's effect on one run.
type Stats struct {
	Condition        Condition
	LossFactor       float64
	ErrorFactor      float64
	DroppedByWeather int
	TotalLost        int
}

// Apply drops additional photons out of the already-atmosphere-thinned
// survivor set, scaled by the named condition's loss factor relative to
// the baseline loss that atmosphere already inflicted (spec.md §4.3).
// totalSent is the original per-run photon count n, needed to recover
// the baseline loss rate the survivor count alone can't express.
func Apply(src rng.Source, condition Condition, survivors []quantum.Photon, totalSent int) ([]quantum.Photon, Stats) {
	f, ok := factors[condition]
	if !ok {
		condition = Clear
		f = factors[Clear]
	}

	alreadyLost := totalSent - len(survivors)
	baseLoss := 0.0
	if totalSent > 0 {
		baseLoss = float64(alreadyLost) / float64(totalSent)
	}
	wxLoss := math.Min(maxLoss, baseLoss*f.loss)
	dropProb := math.Max(0, wxLoss-baseLoss)

	kept := make([]quantum.Photon, 0, len(survivors))
	dropped := 0
	for _, p := range survivors {
		if src.Float64() < dropProb {
			dropped++
			continue
		}
		kept = append(kept, p)
	}

	stats := Stats{
		Condition:        condition,
		LossFactor:       f.loss,
		ErrorFactor:      f.error,
		DroppedByWeather: dropped,
		TotalLost:        alreadyLost + dropped,
	}
	return kept, stats
}
