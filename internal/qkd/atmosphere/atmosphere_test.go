package atmosphere

import (
	"testing"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

func preparePhotons(n int) []quantum.Photon {
	photons := make([]quantum.Photon, n)
	for i := range photons {
		photons[i] = quantum.NewPhoton(i, quantum.Bit(i%2), quantum.Rectilinear)
	}
	return photons
}

func TestTransmitPreservesOriginalIndex(t *testing.T) {
	src := rng.New(1)
	channel := New(500)
	photons := preparePhotons(200)

	survivors, _ := channel.Transmit(src, photons)
	for _, p := range survivors {
		if p.OriginalIndex < 0 || p.OriginalIndex >= 200 {
			t.Fatalf("survivor has out-of-range OriginalIndex %d", p.OriginalIndex)
		}
	}
}

func TestTransmitNeverExceedsInputLength(t *testing.T) {
	src := rng.New(2)
	channel := New(1500)
	photons := preparePhotons(500)

	survivors, stats := channel.Transmit(src, photons)
	if len(survivors) > len(photons) {
		t.Error("transmit must not grow the photon sequence")
	}
	if stats.TotalLoss < 0 || stats.TotalLoss > 0.95 {
		t.Errorf("total loss %f out of the documented [0, 0.95] range", stats.TotalLoss)
	}
}

func TestBaselineTransmissionEfficiencyMatchesMeanLoss(t *testing.T) {
	src := rng.New(3)
	channel := New(500)
	trials := 1000
	totalSurvivorRatio := 0.0

	for i := 0; i < trials; i++ {
		survivors, _ := channel.Transmit(src, preparePhotons(500))
		totalSurvivorRatio += float64(len(survivors)) / 500.0
	}

	meanRatio := totalSurvivorRatio / float64(trials)
	// base_loss=0.15, distance attenuation and turbulence add a further
	// few percent — survival should land comfortably below 90%.
	if meanRatio > 0.90 || meanRatio < 0.55 {
		t.Errorf("mean survival ratio %.3f outside plausible range", meanRatio)
	}
}
