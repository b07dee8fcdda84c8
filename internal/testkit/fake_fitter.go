package testkit

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/ports"
)

// FakeFitter is a deterministic stand-in for the external GLMM optimizer. It
// "fits" by method of moments: cell means of the response become fitted
// probabilities, and each factor's variance component is the spread of its
// level means on the link scale. Identical inputs always produce identical
// fits, which is what the idempotence and seeding tests rely on.
type FakeFitter struct {
	// ObsSD is the reported observation-level standard deviation.
	ObsSD float64

	// Variances forces exact variance components per factor, overriding the
	// moment estimates. Used to pin degenerate (zero-variance) scenarios.
	Variances map[string]float64

	// FailOn injects a convergence failure for matching datasets.
	FailOn func(data *dataset.Dataset) error

	mu   sync.Mutex
	fits int
}

// NewFakeFitter creates a fake fitter with a small overdispersion component
func NewFakeFitter() *FakeFitter {
	return &FakeFitter{ObsSD: 0.3}
}

// Fits returns how many fits have been performed
func (f *FakeFitter) Fits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fits
}

// Fit produces a deterministic pseudo-fit for the spec and dataset
func (f *FakeFitter) Fit(ctx context.Context, spec model.Spec, data *dataset.Dataset, link model.Link) (model.Fitted, error) {
	if f.FailOn != nil {
		if err := f.FailOn(data); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	f.fits++
	f.mu.Unlock()

	n := data.Len()
	fitted := cellMeans(spec, data)

	residuals := make([]float64, n)
	logLik := 0.0
	meanY := 0.0
	for i, y := range data.Response {
		residuals[i] = y - fitted[i]
		logLik += y*math.Log(fitted[i]) + (1-y)*math.Log(1-fitted[i])
		meanY += y
	}
	meanY /= float64(n)

	table := make([]model.VarianceRow, 0, len(spec.RandomIntercepts)+1)
	for _, factor := range spec.RandomIntercepts {
		sd := f.factorSD(factor, data, link)
		table = append(table, model.VarianceRow{Term: factor, StdDev: sd})
	}
	table = append(table, model.VarianceRow{Term: dataset.ObsTerm, StdDev: f.ObsSD})

	return &fakeFitted{
		table:     table,
		intercept: link.Apply(clampProb(meanY)),
		fitted:    fitted,
		residuals: residuals,
		logLik:    logLik,
	}, nil
}

func (f *FakeFitter) factorSD(factor string, data *dataset.Dataset, link model.Link) float64 {
	if v, ok := f.Variances[factor]; ok {
		return math.Sqrt(v)
	}

	col, ok := data.Factors[factor]
	if !ok {
		return 0
	}
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for i, level := range col {
		sums[level] += data.Response[i]
		counts[level]++
	}

	levels := make([]string, 0, len(sums))
	for level := range sums {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	etas := make([]float64, 0, len(sums))
	meanEta := 0.0
	for _, level := range levels {
		eta := link.Apply(clampProb(sums[level] / counts[level]))
		etas = append(etas, eta)
		meanEta += eta
	}
	if len(etas) < 2 {
		return 0
	}
	meanEta /= float64(len(etas))

	ss := 0.0
	for _, eta := range etas {
		ss += (eta - meanEta) * (eta - meanEta)
	}
	return math.Sqrt(ss / float64(len(etas)-1))
}

// cellMeans assigns each row the mean response of its cell, where a cell is
// the combination of the spec's random-intercept factor levels. Removing a
// factor from the spec coarsens the cells, so reduced models fit the data no
// better than the full model.
func cellMeans(spec model.Spec, data *dataset.Dataset) []float64 {
	n := data.Len()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		parts := make([]string, 0, len(spec.RandomIntercepts))
		for _, factor := range spec.RandomIntercepts {
			if col, ok := data.Factors[factor]; ok {
				parts = append(parts, col[i])
			}
		}
		keys[i] = strings.Join(parts, "\x1f")
	}

	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for i, y := range data.Response {
		sums[keys[i]] += y
		counts[keys[i]]++
	}

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = clampProb(sums[keys[i]] / counts[keys[i]])
	}
	return fitted
}

// clampProb keeps probabilities away from 0 and 1 so the link and the
// log-likelihood stay finite.
func clampProb(p float64) float64 {
	const eps = 0.025
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}

type fakeFitted struct {
	table     []model.VarianceRow
	intercept float64
	fitted    []float64
	residuals []float64
	logLik    float64
}

func (m *fakeFitted) VarianceTable() []model.VarianceRow { return m.table }
func (m *fakeFitted) FixedIntercept() float64            { return m.intercept }
func (m *fakeFitted) FittedValues() []float64            { return m.fitted }
func (m *fakeFitted) Residuals() []float64               { return m.residuals }
func (m *fakeFitted) LogLikelihood() float64             { return m.logLik }

func (m *fakeFitted) Simulate(n int, seed int64) ([][]float64, error) {
	src := rand.New(rand.NewSource(seed))
	sims := make([][]float64, n)
	for k := range sims {
		y := make([]float64, len(m.fitted))
		for i, p := range m.fitted {
			if src.Float64() < p {
				y[i] = 1
			}
		}
		sims[k] = y
	}
	return sims, nil
}

var _ ports.ModelFitter = (*FakeFitter)(nil)
