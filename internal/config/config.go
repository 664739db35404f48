// Package config loads the simulation's RunConfig from a YAML file, an
// environment variable layer, and finally the spec.md §6 defaults,
// using the same viper-based layering the rest of the example stack
// reaches for.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/satqkd/bb84sim/internal/qkd/eve"
	"github.com/satqkd/bb84sim/internal/qkd/protocol"
	"github.com/satqkd/bb84sim/internal/qkd/weather"
)

const envPrefix = "BB84SIM"

// Load resolves a protocol.RunConfig from (in increasing priority)
// compiled-in defaults, an optional config file, and environment
// variables prefixed BB84SIM_.
func Load(configPath string) (protocol.RunConfig, error) {
	v := viper.New()
	defaults := protocol.DefaultConfig()

	v.SetDefault("num_bits", defaults.NumBits)
	v.SetDefault("eve_active", defaults.EveActive)
	v.SetDefault("eve_interception_rate", defaults.EveInterceptionRate)
	v.SetDefault("eve_attack_type", string(defaults.EveAttackType))
	v.SetDefault("distance_km", defaults.DistanceKm)
	v.SetDefault("weather", string(defaults.Weather))
	v.SetDefault("time_of_day", string(defaults.TimeOfDay))
	v.SetDefault("telescope_aperture_cm", defaults.TelescopeApertureCm)
	v.SetDefault("reconciliation_mode", string(defaults.ReconciliationMode))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return protocol.RunConfig{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	cfg := protocol.RunConfig{
		NumBits:             v.GetInt("num_bits"),
		EveActive:           v.GetBool("eve_active"),
		EveInterceptionRate: v.GetFloat64("eve_interception_rate"),
		EveAttackType:       eve.Resolve(v.GetString("eve_attack_type")),
		DistanceKm:          v.GetFloat64("distance_km"),
		Weather:             weather.Resolve(v.GetString("weather")),
		TimeOfDay:           protocol.TimeOfDay(v.GetString("time_of_day")),
		TelescopeApertureCm: v.GetFloat64("telescope_aperture_cm"),
		ReconciliationMode:  protocol.ReconciliationMode(v.GetString("reconciliation_mode")),
	}

	if err := cfg.Validate(); err != nil {
		return protocol.RunConfig{}, err
	}
	return cfg, nil
}
