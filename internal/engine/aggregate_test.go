package engine

import (
	"math"
	"testing"
)

func TestUpperTailP(t *testing.T) {
	// Observed estimate first, strictly the maximum: p hits the floor 1/npermut.
	p := upperTailP([]float64{0.5, 0.1, 0.2}, 0.5, 3)
	if math.Abs(p-1.0/3) > 1e-12 {
		t.Errorf("p = %v, want 1/3", p)
	}

	// A permutation replicate ties the observed value: it counts too.
	p = upperTailP([]float64{0.5, 0.5, 0.2}, 0.5, 3)
	if math.Abs(p-2.0/3) > 1e-12 {
		t.Errorf("p = %v, want 2/3", p)
	}

	// Observed is the minimum: every replicate counts, p = 1.
	p = upperTailP([]float64{0.1, 0.5, 0.2}, 0.1, 3)
	if p != 1 {
		t.Errorf("p = %v, want 1", p)
	}

	// Failed replicates never count as extreme.
	p = upperTailP([]float64{0.5, math.NaN(), 0.6}, 0.5, 3)
	if math.Abs(p-2.0/3) > 1e-12 {
		t.Errorf("p = %v, want 2/3", p)
	}

	if !math.IsNaN(upperTailP([]float64{0.1}, math.NaN(), 1)) {
		t.Error("NaN observed value must yield NaN p")
	}
}

func TestSampleSD(t *testing.T) {
	sd := sampleSD([]float64{1, 2, 3, 4})
	if math.Abs(sd-math.Sqrt(5.0/3)) > 1e-9 {
		t.Errorf("sd = %v, want %v", sd, math.Sqrt(5.0/3))
	}

	// NaN entries are dropped before computing.
	sd = sampleSD([]float64{1, math.NaN(), 2, 3, 4, math.NaN()})
	if math.Abs(sd-math.Sqrt(5.0/3)) > 1e-9 {
		t.Errorf("sd with NaN = %v", sd)
	}

	if !math.IsNaN(sampleSD([]float64{1})) {
		t.Error("single sample has no sample SD")
	}
	if !math.IsNaN(sampleSD(nil)) {
		t.Error("empty sample has no sample SD")
	}
}

func TestEmpiricalCI(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i + 1)
	}

	ci := empiricalCI(samples, 0.95)
	if ci.Lower > ci.Upper {
		t.Errorf("lower %v > upper %v", ci.Lower, ci.Upper)
	}
	if ci.Lower < 1 || ci.Upper > 100 {
		t.Errorf("CI [%v, %v] outside sample range", ci.Lower, ci.Upper)
	}
	if ci.Lower > 10 || ci.Upper < 90 {
		t.Errorf("CI [%v, %v] implausibly narrow for 95%%", ci.Lower, ci.Upper)
	}

	empty := empiricalCI([]float64{math.NaN()}, 0.95)
	if !math.IsNaN(empty.Lower) || !math.IsNaN(empty.Upper) {
		t.Error("all-NaN samples must give a missing interval")
	}
}
