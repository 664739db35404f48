// Package runner fans a RunConfig out across many concurrent protocol
// runs and aggregates their outcomes, the way a statistical test suite
// or a capacity-planning tool would (spec.md §8: "statistical
// properties over >= 1000 runs per config").
package runner

import (
	"sync"

	"github.com/google/uuid"

	"github.com/satqkd/bb84sim/internal/qkd/protocol"
	"github.com/satqkd/bb84sim/internal/qkd/qber"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

// BatchRunner owns a set of completed traces keyed by a generated run
// ID, guarded the way the teacher's session table guards live sessions:
// one RWMutex around a map, writers take the full lock, readers take
// the read lock.
type BatchRunner struct {
	mu     sync.RWMutex
	traces map[uuid.UUID]protocol.Trace
}

// NewBatchRunner returns an empty runner.
func NewBatchRunner() *BatchRunner {
	return &BatchRunner{traces: make(map[uuid.UUID]protocol.Trace)}
}

// Summary aggregates a batch of runs against one config.
type Summary struct {
	Runs          int
	MeanQBER      float64
	AbortRate     float64
	MeanFinalBits float64
	RunIDs        []uuid.UUID
}

// RunBatch executes n independent runs of config concurrently, each on
// its own rng.Source seeded from seedFor, and returns the aggregate
// statistics spec.md §8 reasons about. Results remain retrievable via
// Trace until the caller calls Forget.
func (b *BatchRunner) RunBatch(config protocol.RunConfig, n int, seedFor func(i int) int64) Summary {
	type outcome struct {
		id    uuid.UUID
		trace protocol.Trace
	}

	outcomes := make(chan outcome, n)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			src := rng.New(seedFor(i))
			trace := protocol.Run(config, src)
			outcomes <- outcome{id: uuid.New(), trace: trace}
		}(i)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var summary Summary
	totalQBER := 0.0
	totalFinalBits := 0
	aborts := 0

	b.mu.Lock()
	for o := range outcomes {
		b.traces[o.id] = o.trace
		summary.RunIDs = append(summary.RunIDs, o.id)
		totalQBER += o.trace.ErrorAnalysis.QBERPercent
		totalFinalBits += len(o.trace.FinalKey)
		if o.trace.SecurityLevel == qber.Abort {
			aborts++
		}
	}
	b.mu.Unlock()

	summary.Runs = n
	if n > 0 {
		summary.MeanQBER = totalQBER / float64(n)
		summary.AbortRate = float64(aborts) / float64(n)
		summary.MeanFinalBits = float64(totalFinalBits) / float64(n)
	}
	return summary
}

// Trace retrieves a previously run trace by ID.
func (b *BatchRunner) Trace(id uuid.UUID) (protocol.Trace, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	trace, ok := b.traces[id]
	return trace, ok
}

// Forget discards every stored trace, bounding memory for long-running
// statistical sweeps.
func (b *BatchRunner) Forget() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.traces = make(map[uuid.UUID]protocol.Trace)
}

// Count reports how many traces are currently retained.
func (b *BatchRunner) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.traces)
}
