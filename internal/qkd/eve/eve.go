// Package eve implements the five BB84 eavesdropping strategies of
// spec.md §4.4, each as a pure function over a photon stream rather
// than a class hierarchy (spec.md §9 design notes).
package eve

import (
	"encoding/json"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

// AttackType names one of the five modeled strategies.
type AttackType string

const (
	InterceptResend       AttackType = "intercept_resend"
	BeamSplitting         AttackType = "beam_splitting"
	PhotonNumberSplitting AttackType = "photon_number_splitting"
	DetectorBlinding      AttackType = "detector_blinding"
	JammedLink            AttackType = "jammed_link"
)

// Resolve maps an arbitrary string to a known AttackType, defaulting to
// InterceptResend for anything unrecognized (spec.md §4.4).
func Resolve(s string) AttackType {
	switch AttackType(s) {
	case InterceptResend, BeamSplitting, PhotonNumberSplitting, DetectorBlinding, JammedLink:
		return AttackType(s)
	default:
		return InterceptResend
	}
}

// Stats is the sum type spec.md §9 asks for: one concrete struct per
// attack, all satisfying this interface, so consumers can branch on
// Kind() without parsing free-form strings.
type Stats interface {
	Kind() AttackType
	Touched() int
	ErrorsIntroduced() int
	ExpectedQBER() string
	DetectionDifficulty() string
	json.Marshaler
}

// statsDTO is the wire shape for any Stats value (spec.md §3:
// AttackStats "carries counts... and a fixed textual summary"). Every
// concrete attack-stats type marshals through this via marshalStats,
// rather than leaning on encoding/json's default struct reflection,
// which would see only their unexported fields and emit "{}".
type statsDTO struct {
	Kind                AttackType `json:"kind"`
	Touched             int        `json:"touched"`
	ErrorsIntroduced    int        `json:"errors_introduced"`
	ExpectedQBER        string     `json:"expected_qber"`
	DetectionDifficulty string     `json:"detection_difficulty"`
}

func marshalStats(s Stats) ([]byte, error) {
	return json.Marshal(statsDTO{
		Kind:                s.Kind(),
		Touched:             s.Touched(),
		ErrorsIntroduced:    s.ErrorsIntroduced(),
		ExpectedQBER:        s.ExpectedQBER(),
		DetectionDifficulty: s.DetectionDifficulty(),
	})
}

// Apply dispatches to the configured strategy (spec.md §4.4). intensity
// is in [0,1]; senderBases must be index-aligned with photons.
func Apply(src rng.Source, attack AttackType, photons []quantum.Photon, senderBases []quantum.Basis, intensity float64) ([]quantum.Photon, Stats) {
	switch attack {
	case BeamSplitting:
		return beamSplitting(src, photons, intensity)
	case PhotonNumberSplitting:
		return photonNumberSplitting(src, photons, senderBases)
	case DetectorBlinding:
		return detectorBlinding(src, photons, intensity)
	case JammedLink:
		return jammedLink(src, photons)
	default:
		return interceptResend(src, photons, senderBases, intensity)
	}
}
