package engine

import (
	"context"
	"math"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/domain/repeatability"
	"github.com/melina-leite/rptR/internal/errors"
	"github.com/melina-leite/rptR/ports"
)

// PointEstimate is the outcome of one fit → extract → transform pass
type PointEstimate struct {
	Estimates  repeatability.EstimateSet
	Components repeatability.ComponentSet
	Fitted     model.Fitted
}

// DegenerateFor reports whether any requested factor's estimated variance is
// exactly zero. The orchestrator consumes this before scheduling any
// bootstrap work; there is no hidden side channel.
func (p PointEstimate) DegenerateFor(factors []string) bool {
	return p.Components.DegenerateFor(factors)
}

// PointEstimator orchestrates one repeatability estimate: fit the model,
// extract variance components, apply the link-specific transform.
type PointEstimator struct {
	fitter ports.ModelFitter
}

// NewPointEstimator creates a point estimator over a model fitter
func NewPointEstimator(fitter ports.ModelFitter) *PointEstimator {
	return &PointEstimator{fitter: fitter}
}

// Estimate computes the repeatability estimate for the requested grouping
// factors on one dataset. A fit failure is returned as-is; the caller decides
// whether it is fatal.
func (e *PointEstimator) Estimate(ctx context.Context, spec model.Spec, data *dataset.Dataset, factors []string, link model.Link) (PointEstimate, error) {
	fitted, err := e.fitter.Fit(ctx, spec, data, link)
	if err != nil {
		return PointEstimate{}, err
	}

	comps := repeatability.ComponentSetFromTable(fitted.VarianceTable())
	ests, err := repeatability.Transform(comps, factors, fitted.FixedIntercept(), link)
	if err != nil {
		return PointEstimate{}, errors.Wrapf(err, "transforming variance components on the %s scale", link.Name())
	}

	return PointEstimate{
		Estimates:  ests,
		Components: comps,
		Fitted:     fitted,
	}, nil
}

// EstimateReplicate computes the estimate for one resampled dataset. A refit
// failure degrades to an all-NaN estimate set so the replicate phase can
// continue; only the phase-level machinery may abort a phase.
func (e *PointEstimator) EstimateReplicate(ctx context.Context, spec model.Spec, data *dataset.Dataset, factors []string, link model.Link) repeatability.EstimateSet {
	point, err := e.Estimate(ctx, spec, data, factors, link)
	if err != nil {
		return missingEstimates(factors)
	}
	return point.Estimates
}

func missingEstimates(factors []string) repeatability.EstimateSet {
	out := make(repeatability.EstimateSet, len(factors))
	for _, f := range factors {
		out[f] = repeatability.Estimate{
			LinkScale:     math.NaN(),
			OriginalScale: math.NaN(),
		}
	}
	return out
}
