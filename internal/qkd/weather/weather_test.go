package weather

import (
	"testing"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

func TestResolveUnknownFallsBackToClear(t *testing.T) {
	if Resolve("foggy") != Clear {
		t.Error("unknown weather strings must fall back to clear")
	}
	if Resolve("rain") != Rain {
		t.Error("known weather strings must resolve to themselves")
	}
}

func survivors(n, alreadyLost int) []quantum.Photon {
	photons := make([]quantum.Photon, 0, n-alreadyLost)
	for i := alreadyLost; i < n; i++ {
		photons = append(photons, quantum.NewPhoton(i, quantum.Zero, quantum.Rectilinear))
	}
	return photons
}

func TestApplyClearDropsNothingExtra(t *testing.T) {
	src := rng.New(1)
	kept, stats := Apply(src, Clear, survivors(100, 20), 100)
	if stats.DroppedByWeather != 0 {
		t.Errorf("clear weather (Lw=1.0) should drop nothing beyond existing loss, dropped %d", stats.DroppedByWeather)
	}
	if len(kept) != 80 {
		t.Errorf("expected all 80 survivors kept, got %d", len(kept))
	}
}

func TestApplyRainDropsMoreThanClear(t *testing.T) {
	src := rng.New(2)
	_, rainStats := Apply(src, Rain, survivors(500, 75), 500)
	if rainStats.DroppedByWeather == 0 {
		t.Error("rain (Lw=10.0) should additionally drop photons beyond the existing 15% loss")
	}
}

func TestApplyUnknownConditionReportsClear(t *testing.T) {
	src := rng.New(3)
	_, stats := Apply(src, Condition("fog"), survivors(100, 10), 100)
	if stats.Condition != Clear {
		t.Errorf("expected reported condition to fall back to clear, got %s", stats.Condition)
	}
}
