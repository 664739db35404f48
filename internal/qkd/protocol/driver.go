// Package protocol drives the seven-stage BB84 simulation pipeline
// (spec.md §4.5): prepare, eve, atmosphere transmit, weather, measure,
// sift, QBER, amplify, in that fixed order.
package protocol

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/satqkd/bb84sim/internal/logging"
	"github.com/satqkd/bb84sim/internal/qkd/amplify"
	"github.com/satqkd/bb84sim/internal/qkd/atmosphere"
	"github.com/satqkd/bb84sim/internal/qkd/cascade"
	"github.com/satqkd/bb84sim/internal/qkd/eve"
	"github.com/satqkd/bb84sim/internal/qkd/qber"
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
	"github.com/satqkd/bb84sim/internal/qkd/weather"
)

// Option customizes a single Run call.
type Option func(*runOptions)

type runOptions struct {
	log *logrus.Entry
}

// WithLogger attaches a structured logger to the run. Without this
// option, Run logs nothing (spec.md §5: the core performs no
// unconditional I/O).
func WithLogger(entry *logrus.Entry) Option {
	return func(o *runOptions) { o.log = entry }
}

func noopLogger() *logrus.Entry {
	return logrus.NewEntry(logging.Discard())
}

// Run executes one complete protocol run against a validated config,
// drawing all randomness from src. It assumes config.Validate() has
// already been called (spec.md §7: the core assumes validated input).
func Run(config RunConfig, src rng.Source, opts ...Option) Trace {
	options := runOptions{log: noopLogger()}
	for _, opt := range opts {
		opt(&options)
	}
	log := options.log.WithField("run_id", uuid.NewString())

	n := config.NumBits
	log.WithField("num_bits", n).Debug("preparing photons")

	// 1. prepare
	aliceBits := quantum.GenerateRandomBits(src, n)
	aliceBases := quantum.GenerateRandomBases(src, n)
	photons := make([]quantum.Photon, n)
	for i := range photons {
		photons[i] = quantum.NewPhoton(i, aliceBits[i], aliceBases[i])
	}

	// 2. eve
	var attackStats eve.Stats
	if config.EveActive {
		photons, attackStats = eve.Apply(src, config.EveAttackType, photons, aliceBases, config.EveInterceptionRate)
		log.WithFields(logrus.Fields{
			"attack":  attackStats.Kind(),
			"touched": attackStats.Touched(),
		}).Debug("eve applied")
	}

	// 3. transmit (atmosphere)
	channel := atmosphere.New(config.DistanceKm)
	photons, channelStats := channel.Transmit(src, photons)

	// 4. weather
	photons, weatherStats := weather.Apply(src, config.Weather, photons, n)

	// 5. measure
	bobBases := quantum.GenerateRandomBases(src, n)
	measured := make([]quantum.MeasuredBit, n)
	for i := range measured {
		measured[i] = quantum.Absent
	}
	for _, p := range photons {
		bit, _ := quantum.Measure(src, p.Bit, p.PrepBasis, bobBases[p.OriginalIndex])
		measured[p.OriginalIndex] = quantum.MeasuredBit(bit)
	}

	// 6. sift
	matches := make([]bool, n)
	matchingIndices := make([]int, 0, n)
	siftedKey := make([]quantum.MeasuredBit, 0, n)
	for i := 0; i < n; i++ {
		matched := measured[i].Present() && aliceBases[i] == bobBases[i]
		matches[i] = matched
		if matched {
			matchingIndices = append(matchingIndices, i)
			siftedKey = append(siftedKey, measured[i])
		}
	}

	// 7. qber
	analysis := qber.Estimate(src, aliceBits, measured, matchingIndices, n)
	log.WithFields(logrus.Fields{
		"qber":     analysis.QBERPercent,
		"security": analysis.SecurityLevel,
	}).Info("qber estimated")

	// 8. reconcile: per spec.md §9, the default is a perfect oracle —
	// the corrected key is simply Alice's bits at the untested matching
	// positions. SPEC_FULL.md §4.11 supplements this with a real
	// Cascade pass that reconciles against Bob's actual measured bits
	// and discloses classical parity bits to do it.
	tested := make(map[int]struct{}, len(analysis.TestedIndices))
	for _, idx := range analysis.TestedIndices {
		tested[idx] = struct{}{}
	}

	var correctedKey []quantum.Bit
	var reconciliation *cascade.Result

	if config.ReconciliationMode == ReconciliationCascade {
		aliceKey := make([]quantum.Bit, 0, len(matchingIndices))
		bobKey := make([]quantum.Bit, 0, len(matchingIndices))
		for _, idx := range matchingIndices {
			if _, wasTested := tested[idx]; wasTested {
				continue
			}
			aliceKey = append(aliceKey, aliceBits[idx])
			bobKey = append(bobKey, quantum.Bit(measured[idx]))
		}

		errorRate := analysis.QBERPercent / 100
		if errorRate <= 0 {
			errorRate = 0.01
		}
		result, err := cascade.New(errorRate).Correct(aliceKey, bobKey)
		if err != nil {
			log.WithError(err).Warn("cascade reconciliation failed; falling back to alice's key unreconciled")
			correctedKey = aliceKey
		} else {
			correctedKey = result.CorrectedKey
			reconciliation = &result
			log.WithFields(logrus.Fields{
				"disclosed_bits": result.DisclosedBits,
				"passes":         len(result.Passes),
			}).Debug("cascade reconciliation complete")
		}
	} else {
		correctedKey = make([]quantum.Bit, 0, len(matchingIndices))
		for _, idx := range matchingIndices {
			if _, wasTested := tested[idx]; wasTested {
				continue
			}
			correctedKey = append(correctedKey, aliceBits[idx])
		}
	}

	amplified := amplify.Apply(correctedKey, analysis.SecurityLevel)

	// 9. assemble trace
	trace := Trace{
		Config:          config,
		AliceBits:       aliceBits,
		AliceBases:      aliceBases,
		BobBases:        bobBases,
		Measured:        measured,
		Matches:         matches,
		MatchingIndices: matchingIndices,
		SiftedKey:       siftedKey,
		FinalKey:        amplified.FinalKey,
		FinalKeyHex:     amplified.FinalKeyHex,
		Efficiencies: Efficiencies{
			TransmissionPercent: percent(len(photons), n),
			BasisMatchPercent:   percent(len(matchingIndices), n),
			KeyPercent:          percent(len(amplified.FinalKey), n),
		},
		ErrorAnalysis:  analysis,
		ChannelStats:   channelStats,
		WeatherStats:   weatherStats,
		AttackStats:    attackStats,
		Reconciliation: reconciliation,
		SecurityLevel:  analysis.SecurityLevel,
		SafeToUseKey:   analysis.SafeToUse,
	}

	log.WithField("final_key_bits", len(trace.FinalKey)).Info("run complete")
	return trace
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	const scale = 100
	return float64(int(v*scale+0.5)) / scale
}
