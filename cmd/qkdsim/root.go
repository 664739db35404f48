package main

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "qkdsim",
	Short: "Simulate a BB84 quantum key distribution session over a free-space channel",
	Long: `qkdsim runs the seven-stage BB84 simulation pipeline: photon
preparation, an optional eavesdropper, atmospheric and weather
transport, measurement, sifting, QBER estimation, and privacy
amplification. It reports a security verdict for the resulting key.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (defaults baked in if omitted)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
