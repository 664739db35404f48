package protocol

import (
	"github.com/satqkd/bb84sim/internal/qkd/atmosphere"
	"github.com/satqkd/bb84sim/internal/qkd/cascade"
	"github.com/satqkd/bb84sim/internal/qkd/eve"
	"github.com/satqkd/bb84sim/internal/qkd/qber"
	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/weather"
)

// Efficiencies holds the three percentage metrics of spec.md §4.8.
type Efficiencies struct {
	TransmissionPercent float64 `json:"transmission_percent"`
	BasisMatchPercent   float64 `json:"basis_match_percent"`
	KeyPercent          float64 `json:"key_percent"`
}

// Trace is the immutable output bundle of one run() call (spec.md §3).
// All fields are populated before Run returns; nothing is mutated
// afterward.
type Trace struct {
	Config RunConfig `json:"config"`

	AliceBits  []quantum.Bit         `json:"alice_bits"`
	AliceBases []quantum.Basis       `json:"alice_bases"`
	BobBases   []quantum.Basis       `json:"bob_bases"`
	Measured   []quantum.MeasuredBit `json:"measured_bits"`

	Matches         []bool                `json:"matches"`
	MatchingIndices []int                 `json:"matching_indices"`
	SiftedKey       []quantum.MeasuredBit `json:"sifted_key"`

	FinalKey    []quantum.Bit `json:"final_key"`
	FinalKeyHex string        `json:"final_key_hex"`

	Efficiencies Efficiencies `json:"efficiencies"`

	ErrorAnalysis qber.Analysis    `json:"error_analysis"`
	ChannelStats  atmosphere.Stats `json:"channel_stats"`
	WeatherStats  weather.Stats    `json:"weather_stats"`
	AttackStats   eve.Stats        `json:"attack_stats,omitempty"`

	// Reconciliation is populated only when Config.ReconciliationMode
	// is ReconciliationCascade; the oracle mode has no classical
	// disclosure to report.
	Reconciliation *cascade.Result `json:"reconciliation,omitempty"`

	SecurityLevel qber.SecurityLevel `json:"security_level"`
	SafeToUseKey  bool               `json:"safe_to_use_key"`
}

// NumBits returns the requested raw-bit count for this trace.
func (t Trace) NumBits() int {
	return len(t.AliceBits)
}
