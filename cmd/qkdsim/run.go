package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/satqkd/bb84sim/internal/config"
	"github.com/satqkd/bb84sim/internal/logging"
	"github.com/satqkd/bb84sim/internal/qkd/eve"
	"github.com/satqkd/bb84sim/internal/qkd/protocol"
	"github.com/satqkd/bb84sim/internal/qkd/qber"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
	"github.com/satqkd/bb84sim/internal/qkd/weather"
)

var (
	flagNumBits        int
	flagDistanceKm     float64
	flagWeather        string
	flagEveActive      bool
	flagEveAttack      string
	flagEveRate        float64
	flagSeed           int64
	flagVerbose        bool
	flagReconciliation string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one BB84 simulation and print the resulting trace",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagNumBits, "num-bits", 0, "raw bit count (64-2048); 0 uses the configured default")
	runCmd.Flags().Float64Var(&flagDistanceKm, "distance-km", 0, "satellite-to-ground distance; 0 uses the configured default")
	runCmd.Flags().StringVar(&flagWeather, "weather", "", "weather condition (clear, light_haze, heavy_clouds, rain)")
	runCmd.Flags().BoolVar(&flagEveActive, "eve", false, "enable the eavesdropper")
	runCmd.Flags().StringVar(&flagEveAttack, "attack", "", "eavesdropper strategy")
	runCmd.Flags().Float64Var(&flagEveRate, "intensity", 0, "eavesdropper interception rate [0,1]")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 1, "deterministic RNG seed")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "log each pipeline stage")
	runCmd.Flags().StringVar(&flagReconciliation, "reconciliation", "", "reconciliation mode (oracle, cascade); empty uses the configured default")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if flagNumBits != 0 {
		cfg.NumBits = flagNumBits
	}
	if flagDistanceKm != 0 {
		cfg.DistanceKm = flagDistanceKm
	}
	if flagWeather != "" {
		cfg.Weather = weather.Resolve(flagWeather)
	}
	if flagEveActive {
		cfg.EveActive = true
	}
	if flagEveAttack != "" {
		cfg.EveAttackType = eve.Resolve(flagEveAttack)
	}
	if flagEveRate != 0 {
		cfg.EveInterceptionRate = flagEveRate
	}
	if flagReconciliation != "" {
		cfg.ReconciliationMode = protocol.ReconciliationMode(flagReconciliation)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var opts []protocol.Option
	if flagVerbose {
		logger := logging.New(logrus.DebugLevel)
		opts = append(opts, protocol.WithLogger(logrus.NewEntry(logger)))
	}

	trace := protocol.Run(cfg, rng.New(flagSeed), opts...)
	printTrace(trace)
	return nil
}

func printTrace(trace protocol.Trace) {
	verdictColor := securityColor(trace.SecurityLevel)

	fmt.Printf("num_bits:              %d\n", trace.NumBits())
	fmt.Printf("transmission_pct:      %.2f%%\n", trace.Efficiencies.TransmissionPercent)
	fmt.Printf("basis_match_pct:       %.2f%%\n", trace.Efficiencies.BasisMatchPercent)
	fmt.Printf("key_pct:               %.2f%%\n", trace.Efficiencies.KeyPercent)
	fmt.Printf("qber:                  %.2f%%\n", trace.ErrorAnalysis.QBERPercent)
	verdictColor.Printf("security_level:        %s\n", trace.SecurityLevel)
	fmt.Printf("assessment:            %s\n", trace.ErrorAnalysis.Assessment)
	fmt.Printf("safe_to_use_key:       %v\n", trace.SafeToUseKey)
	fmt.Printf("final_key_bits:        %d\n", len(trace.FinalKey))
	fmt.Printf("final_key_hex:         %s\n", trace.FinalKeyHex)

	if trace.AttackStats != nil {
		fmt.Printf("attack:                %s (touched=%d, errors=%d)\n",
			trace.AttackStats.Kind(), trace.AttackStats.Touched(), trace.AttackStats.ErrorsIntroduced())
	}
	if trace.Reconciliation != nil {
		fmt.Printf("reconciliation:        cascade (disclosed=%d bits over %d passes)\n",
			trace.Reconciliation.DisclosedBits, len(trace.Reconciliation.Passes))
	}
}

func securityColor(level qber.SecurityLevel) *color.Color {
	switch level {
	case qber.Secure:
		return color.New(color.FgGreen, color.Bold)
	case qber.Acceptable:
		return color.New(color.FgYellow)
	case qber.Suspicious:
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
