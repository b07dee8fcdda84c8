package engine

import (
	"context"
	"math"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/domain/repeatability"
	"github.com/melina-leite/rptR/internal/errors"
	"github.com/melina-leite/rptR/internal/logging"
)

// BootstrapResult holds the uncertainty outputs of the parametric bootstrap
// phase. With zero replicates all SE/CI entries are NaN and the sample
// vectors are empty.
type BootstrapResult struct {
	Samples map[string]repeatability.ScaleSamples
	SE      map[string]repeatability.Estimate
	CI      map[string]repeatability.IntervalPair
}

// BootstrapEngine quantifies estimator uncertainty by refitting the model on
// response vectors simulated from the fitted full model's predictive
// distribution.
type BootstrapEngine struct {
	est *PointEstimator
	log *logging.Logger
}

// NewBootstrapEngine creates a bootstrap engine over a point estimator
func NewBootstrapEngine(est *PointEstimator, log *logging.Logger) *BootstrapEngine {
	return &BootstrapEngine{est: est, log: log}
}

// Run draws nboot predictive response vectors, refits each, and aggregates
// the replicate estimates into empirical confidence intervals and standard
// errors. A replicate whose refit fails contributes NaN rather than aborting
// the phase; a simulation or pool failure aborts the phase.
func (b *BootstrapEngine) Run(ctx context.Context, spec model.Spec, data *dataset.Dataset, factors []string, link model.Link, fitted model.Fitted, nboot int, level float64, parallel bool, workers int, seed int64) (*BootstrapResult, error) {
	if nboot <= 0 {
		b.log.Debug("bootstrap skipped: no replicates requested")
		return emptyBootstrap(factors), nil
	}

	b.log.Info("bootstrap: simulating %d predictive response vectors", nboot)
	sims, err := fitted.Simulate(nboot, seed)
	if err != nil {
		return nil, errors.FitFailed("bootstrap simulation", err)
	}

	task := func(ctx context.Context, i int) (repeatability.EstimateSet, error) {
		replicate, err := data.WithResponse(sims[i])
		if err != nil {
			return nil, errors.WorkerPool("bootstrap", err)
		}
		return b.est.EstimateReplicate(ctx, spec, replicate, factors, link), nil
	}

	reps, err := MapReplicates(ctx, nboot, parallel, workers, task)
	if err != nil {
		return nil, errors.WorkerPool("bootstrap", err)
	}

	result := &BootstrapResult{
		Samples: collectSamples(reps, factors),
		SE:      make(map[string]repeatability.Estimate, len(factors)),
		CI:      make(map[string]repeatability.IntervalPair, len(factors)),
	}
	for _, f := range factors {
		s := result.Samples[f]
		result.SE[f] = repeatability.Estimate{
			LinkScale:     sampleSD(s.LinkScale),
			OriginalScale: sampleSD(s.OriginalScale),
		}
		result.CI[f] = repeatability.IntervalPair{
			LinkScale:     empiricalCI(s.LinkScale, level),
			OriginalScale: empiricalCI(s.OriginalScale, level),
		}
	}
	b.log.Info("bootstrap: %d replicates aggregated", nboot)
	return result, nil
}

func emptyBootstrap(factors []string) *BootstrapResult {
	missing := repeatability.Interval{Lower: math.NaN(), Upper: math.NaN()}
	result := &BootstrapResult{
		Samples: make(map[string]repeatability.ScaleSamples, len(factors)),
		SE:      make(map[string]repeatability.Estimate, len(factors)),
		CI:      make(map[string]repeatability.IntervalPair, len(factors)),
	}
	for _, f := range factors {
		result.Samples[f] = repeatability.ScaleSamples{}
		result.SE[f] = repeatability.Estimate{LinkScale: math.NaN(), OriginalScale: math.NaN()}
		result.CI[f] = repeatability.IntervalPair{LinkScale: missing, OriginalScale: missing}
	}
	return result
}
