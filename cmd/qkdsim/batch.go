package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/satqkd/bb84sim/internal/config"
	"github.com/satqkd/bb84sim/internal/metrics"
	"github.com/satqkd/bb84sim/internal/qkd/runner"
)

var (
	flagBatchRuns   int
	flagBatchSeed   int64
	flagMetricsAddr string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many concurrent BB84 simulations and report aggregate statistics",
	Long: `batch fans a configured RunConfig out across --runs concurrent
simulations (internal/qkd/runner) and prints the aggregate QBER and
abort rate. With --metrics-addr set, each trace is also recorded as a
Prometheus observation and served at http://<addr>/metrics until the
batch finishes and the operator interrupts the process.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&flagBatchRuns, "runs", 1000, "number of concurrent simulation runs")
	batchCmd.Flags().Int64Var(&flagBatchSeed, "seed", 1, "base RNG seed; run i uses seed+i")
	batchCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics at this address (e.g. :9090) until interrupted")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var recorder *metrics.Recorder
	var server *http.Server
	if flagMetricsAddr != "" {
		registry := prometheus.NewRegistry()
		recorder, err = metrics.NewRecorder(registry)
		if err != nil {
			return fmt.Errorf("batch: registering metrics: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server = &http.Server{Addr: flagMetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "batch: metrics server: %v\n", err)
			}
		}()
		fmt.Printf("serving metrics at http://%s/metrics\n", flagMetricsAddr)
	}

	br := runner.NewBatchRunner()
	summary := br.RunBatch(cfg, flagBatchRuns, func(i int) int64 { return flagBatchSeed + int64(i) })

	if recorder != nil {
		for _, id := range summary.RunIDs {
			if trace, ok := br.Trace(id); ok {
				recorder.Observe(trace)
			}
		}
	}

	fmt.Printf("runs:              %d\n", summary.Runs)
	fmt.Printf("mean_qber:         %.3f%%\n", summary.MeanQBER)
	fmt.Printf("abort_rate:        %.3f\n", summary.AbortRate)
	fmt.Printf("mean_final_bits:   %.1f\n", summary.MeanFinalBits)

	if server != nil {
		fmt.Println("batch complete; metrics remain available until interrupted (ctrl-c)")
		waitForShutdown(server)
	}
	return nil
}

func waitForShutdown(server *http.Server) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
