package protocol

import (
	"fmt"
	"strings"

	"github.com/satqkd/bb84sim/internal/qkd/eve"
	"github.com/satqkd/bb84sim/internal/qkd/weather"
)

// TimeOfDay is reported in the Trace but does not alter the reference
// numerical model (spec.md §6).
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// ReconciliationMode selects how Run turns the sifted key into a
// corrected key at the amplification boundary. spec.md §9 models this
// as a perfect oracle; SPEC_FULL.md §4.11 supplements it with a real
// Cascade reconciliation pass as an alternative a caller can opt into.
type ReconciliationMode string

const (
	// ReconciliationOracle is the spec.md §9 default: the corrected key
	// is simply Alice's bits at the untested matching positions, with
	// no classical disclosure modeled.
	ReconciliationOracle ReconciliationMode = "oracle"
	// ReconciliationCascade runs internal/qkd/cascade against Bob's
	// actual measured bits, producing a Trace.Reconciliation report of
	// what that would really cost in disclosed parity bits.
	ReconciliationCascade ReconciliationMode = "cascade"
)

// RunConfig is the boundary-validated input to Run (spec.md §6).
type RunConfig struct {
	NumBits             int
	EveActive           bool
	EveInterceptionRate float64
	EveAttackType       eve.AttackType
	DistanceKm          float64
	Weather             weather.Condition
	TimeOfDay           TimeOfDay
	TelescopeApertureCm float64
	ReconciliationMode  ReconciliationMode
}

// DefaultConfig returns the spec.md §6 default configuration.
func DefaultConfig() RunConfig {
	return RunConfig{
		NumBits:             256,
		EveActive:           false,
		EveInterceptionRate: 0.5,
		EveAttackType:       eve.InterceptResend,
		DistanceKm:          500,
		Weather:             weather.Clear,
		TimeOfDay:           Night,
		TelescopeApertureCm: 30,
		ReconciliationMode:  ReconciliationOracle,
	}
}

// ConfigError reports a single out-of-range or unparseable field
// (spec.md §7). Validation happens at the boundary; Run assumes a
// validated config and never returns one itself.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigErrors aggregates every violation found during Validate.
type ConfigErrors []*ConfigError

func (es ConfigErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks c against the spec.md §6 ranges without modifying
// it. An empty ReconciliationMode is accepted (Run treats it as the
// oracle default). It returns nil, or a non-nil ConfigErrors.
func (c RunConfig) Validate() error {
	var errs ConfigErrors

	if c.NumBits < 64 || c.NumBits > 2048 {
		errs = append(errs, &ConfigError{"num_bits", "must be between 64 and 2048"})
	}
	if c.EveInterceptionRate < 0.0 || c.EveInterceptionRate > 1.0 {
		errs = append(errs, &ConfigError{"eve_interception_rate", "must be between 0.0 and 1.0"})
	}
	if c.DistanceKm < 100 || c.DistanceKm > 2000 {
		errs = append(errs, &ConfigError{"distance_km", "must be between 100 and 2000"})
	}
	if c.TelescopeApertureCm < 10 || c.TelescopeApertureCm > 100 {
		errs = append(errs, &ConfigError{"telescope_aperture_cm", "must be between 10 and 100"})
	}
	if c.TimeOfDay != Day && c.TimeOfDay != Night {
		errs = append(errs, &ConfigError{"time_of_day", "must be day or night"})
	}
	if c.ReconciliationMode != "" && c.ReconciliationMode != ReconciliationOracle && c.ReconciliationMode != ReconciliationCascade {
		errs = append(errs, &ConfigError{"reconciliation_mode", "must be oracle or cascade"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
