package cascade

import (
	"testing"

	"github.com/satqkd/bb84sim/internal/qkd/quantum"
	"github.com/satqkd/bb84sim/internal/qkd/rng"
)

func alternating(n int) []quantum.Bit {
	bits := make([]quantum.Bit, n)
	for i := range bits {
		bits[i] = quantum.Bit(i % 2)
	}
	return bits
}

func flipAt(bits []quantum.Bit, indices ...int) []quantum.Bit {
	out := append([]quantum.Bit(nil), bits...)
	for _, idx := range indices {
		out[idx] = out[idx].Flip()
	}
	return out
}

func TestParityEvenAndOddWeight(t *testing.T) {
	cases := map[string]struct {
		bits []quantum.Bit
		want quantum.Bit
	}{
		"nil slice is even":     {nil, quantum.Zero},
		"odd weight of three":   {[]quantum.Bit{quantum.One, quantum.One, quantum.One}, quantum.One},
		"even weight of four":   {[]quantum.Bit{quantum.One, quantum.One, quantum.One, quantum.One}, quantum.Zero},
		"single zero bit":       {[]quantum.Bit{quantum.Zero}, quantum.Zero},
		"mixed bits odd weight": {[]quantum.Bit{quantum.One, quantum.Zero, quantum.Zero, quantum.One, quantum.One}, quantum.One},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Parity(tc.bits); got != tc.want {
				t.Errorf("Parity(%v) = %d, want %d", tc.bits, got, tc.want)
			}
		})
	}
}

func TestCorrectIdenticalKeysStillDisclosesParity(t *testing.T) {
	alice := alternating(20)
	bob := append([]quantum.Bit(nil), alice...)

	result, err := New(0.02).Correct(alice, bob)
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if match, _ := VerifyMatch(alice, result.CorrectedKey); !match {
		t.Error("identical keys must remain identical after reconciliation")
	}
	if result.DisclosedBits == 0 {
		t.Error("every pass checks block parity, so some disclosure is expected even with zero errors")
	}
	if len(result.Passes) != 4 {
		t.Errorf("expected the default 4-pass schedule, got %d passes", len(result.Passes))
	}
	for _, stat := range result.Passes {
		if stat.Corrections != 0 || stat.MismatchedRuns != 0 {
			t.Errorf("pass %+v: no mismatches should occur between identical keys", stat)
		}
	}
}

func TestCorrectFixesAnIsolatedError(t *testing.T) {
	alice := alternating(32)
	bob := flipAt(alice, 17)

	result, err := New(0.06).Correct(alice, bob)
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if match, rate := VerifyMatch(alice, result.CorrectedKey); !match {
		t.Errorf("expected reconciliation to clear a single flipped bit, residual rate %.3f", rate)
	}

	var totalCorrections int
	for _, stat := range result.Passes {
		totalCorrections += stat.Corrections
	}
	if totalCorrections == 0 {
		t.Error("expected at least one correction across all passes")
	}
}

func TestCorrectFixesScatteredErrors(t *testing.T) {
	const keyLength = 120
	alice := alternating(keyLength)
	errorIdx := []int{3, 19, 41, 62, 77, 90, 108}
	bob := flipAt(alice, errorIdx...)

	result, err := New(0.12).Correct(alice, bob)
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if match, rate := VerifyMatch(alice, result.CorrectedKey); !match {
		t.Errorf("expected all %d scattered errors to clear, residual rate %.3f", len(errorIdx), rate)
	}
}

func TestCorrectRecoversFromBurstOfErrorsWithinOneBlock(t *testing.T) {
	// A cluster of adjacent errors can land in the same first-pass
	// block; Correct must keep bisecting a block until its parity
	// agrees rather than assuming one flip clears it.
	alice := alternating(64)
	bob := flipAt(alice, 10, 11, 12)

	result, err := New(0.05).Correct(alice, bob)
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if match, rate := VerifyMatch(alice, result.CorrectedKey); !match {
		t.Errorf("expected a burst of adjacent errors to fully clear, residual rate %.3f", rate)
	}
}

func TestCorrectAgainstRandomNoiseConverges(t *testing.T) {
	const keyLength = 200
	src := rng.New(77)
	alice := quantum.GenerateRandomBits(src, keyLength)

	noise := rng.New(78)
	errorRate := 0.08
	bob := append([]quantum.Bit(nil), alice...)
	for i := range bob {
		if noise.Float64() < errorRate {
			bob[i] = bob[i].Flip()
		}
	}

	result, err := New(errorRate).Correct(alice, bob)
	if err != nil {
		t.Fatalf("Correct returned error: %v", err)
	}
	if match, rate := VerifyMatch(alice, result.CorrectedKey); !match {
		t.Errorf("reconciliation should converge at an 8%% error rate, residual %.3f", rate)
	}
	if result.LeakedFraction(keyLength) <= 0 {
		t.Error("expected a positive leaked fraction after reconciling real errors")
	}
}

func TestCorrectRejectsLengthMismatch(t *testing.T) {
	_, err := New(0.05).Correct([]quantum.Bit{quantum.One}, []quantum.Bit{quantum.One, quantum.Zero})
	if err == nil {
		t.Fatal("expected an error when key lengths differ")
	}
}

func TestVerifyMatchReportsResidualRate(t *testing.T) {
	cases := map[string]struct {
		alice, bob []quantum.Bit
		wantMatch  bool
		wantRate   float64
	}{
		"identical":       {[]quantum.Bit{quantum.One, quantum.Zero}, []quantum.Bit{quantum.One, quantum.Zero}, true, 0.0},
		"quarter differ":  {[]quantum.Bit{quantum.One, quantum.Zero, quantum.One, quantum.One}, []quantum.Bit{quantum.Zero, quantum.Zero, quantum.One, quantum.One}, false, 0.25},
		"fully different": {[]quantum.Bit{quantum.One, quantum.One}, []quantum.Bit{quantum.Zero, quantum.Zero}, false, 1.0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			match, rate := VerifyMatch(tc.alice, tc.bob)
			if match != tc.wantMatch {
				t.Errorf("match = %v, want %v", match, tc.wantMatch)
			}
			if rate != tc.wantRate {
				t.Errorf("rate = %.3f, want %.3f", rate, tc.wantRate)
			}
		})
	}
}

func TestVerifyMatchRejectsLengthMismatchAsFullMismatch(t *testing.T) {
	match, rate := VerifyMatch([]quantum.Bit{quantum.Zero}, []quantum.Bit{quantum.Zero, quantum.One})
	if match || rate != 1.0 {
		t.Errorf("length mismatch should report match=false rate=1.0, got match=%v rate=%.3f", match, rate)
	}
}

func TestInformationLeakageAndLeakedFractionAgree(t *testing.T) {
	result := Result{DisclosedBits: 30}
	if got := result.LeakedFraction(150); got != 0.2 {
		t.Errorf("LeakedFraction(150) = %.3f, want 0.2", got)
	}
	if got := InformationLeakage(0, 0); got != 0 {
		t.Errorf("InformationLeakage with zero key length should report 0, got %.3f", got)
	}
}

func TestNewScalesBlockSizeWithErrorRate(t *testing.T) {
	tight := New(0.5)
	loose := New(0.01)
	if tight.blockSize >= loose.blockSize {
		t.Errorf("a higher error rate should yield a smaller initial block size: tight=%d loose=%d", tight.blockSize, loose.blockSize)
	}
	if New(0).blockSize < 1 {
		t.Error("a zero error rate must still produce a usable block size")
	}
}

func BenchmarkCorrectCleanKey(b *testing.B) {
	corrector := New(0.01)
	alice := alternating(256)
	bob := append([]quantum.Bit(nil), alice...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		corrector.Correct(alice, bob)
	}
}
