package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/melina-leite/rptR/domain/repeatability"
)

// collectSamples pivots per-replicate estimate sets into per-factor sample
// vectors, preserving replicate order.
func collectSamples(reps []repeatability.EstimateSet, factors []string) map[string]repeatability.ScaleSamples {
	out := make(map[string]repeatability.ScaleSamples, len(factors))
	for _, f := range factors {
		s := repeatability.ScaleSamples{
			LinkScale:     make([]float64, len(reps)),
			OriginalScale: make([]float64, len(reps)),
		}
		for i, rep := range reps {
			est := rep[f]
			s.LinkScale[i] = est.LinkScale
			s.OriginalScale[i] = est.OriginalScale
		}
		out[f] = s
	}
	return out
}

// finite drops NaN entries (failed replicates, undefined scales) before
// aggregation.
func finite(samples []float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, v := range samples {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// sampleSD is the sample standard deviation of the finite replicate
// estimates, NaN when fewer than two remain.
func sampleSD(samples []float64) float64 {
	kept := finite(samples)
	if len(kept) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(kept)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// empiricalCI is the two-sided [(1-level)/2, 1-(1-level)/2] percentile
// interval of the finite replicate estimates.
func empiricalCI(samples []float64, level float64) repeatability.Interval {
	missing := repeatability.Interval{Lower: math.NaN(), Upper: math.NaN()}
	kept := finite(samples)
	if len(kept) == 0 {
		return missing
	}
	alpha := (1 - level) / 2
	lower, err := stats.Percentile(kept, 100*alpha)
	if err != nil {
		return missing
	}
	upper, err := stats.Percentile(kept, 100*(1-alpha))
	if err != nil {
		return missing
	}
	return repeatability.Interval{Lower: lower, Upper: upper}
}

// upperTailP is the one-sided permutation p-value: the proportion of
// replicate estimates at least as large as the observed one. The observed
// estimate must be the first sample, so the count is always at least one and
// p lies in [1/npermut, 1]. Failed replicates (NaN) never count as extreme.
func upperTailP(samples []float64, observed float64, npermut int) float64 {
	if npermut < 1 || math.IsNaN(observed) {
		return math.NaN()
	}
	count := 0
	for _, v := range samples {
		if !math.IsNaN(v) && v >= observed {
			count++
		}
	}
	return float64(count) / float64(npermut)
}
