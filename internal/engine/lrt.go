package engine

import (
	"context"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/domain/repeatability"
	"github.com/melina-leite/rptR/internal/errors"
	"github.com/melina-leite/rptR/internal/logging"
	"github.com/melina-leite/rptR/ports"
)

// LRTEngine tests each grouping factor's variance component by refitting the
// model with that factor's random intercept removed and comparing
// log-likelihoods.
type LRTEngine struct {
	fitter ports.ModelFitter
	log    *logging.Logger
}

// NewLRTEngine creates a likelihood-ratio-test engine over a model fitter
func NewLRTEngine(fitter ports.ModelFitter, log *logging.Logger) *LRTEngine {
	return &LRTEngine{fitter: fitter, log: log}
}

// Run fits one reduced model per requested factor and returns deviance, df,
// and the boundary-corrected p-value. The variance component is constrained
// non-negative, so the null distribution is the equal mixture of chi-squared
// with 0 and 1 df: p = 0.5 * Survival(D, 1), and p = 1 when D <= 0.
// A reduced-model fit failure is fatal.
func (e *LRTEngine) Run(ctx context.Context, spec model.Spec, data *dataset.Dataset, factors []string, link model.Link, fullLogLik float64) (map[string]repeatability.LRTResult, error) {
	chi2 := distuv.ChiSquared{K: 1}

	out := make(map[string]repeatability.LRTResult, len(factors))
	for _, factor := range factors {
		reduced, err := e.fitter.Fit(ctx, spec.WithoutRandomIntercept(factor), data, link)
		if err != nil {
			return nil, errors.FitFailed("LRT reduced fit for "+factor, err)
		}

		deviance := -2 * (reduced.LogLikelihood() - fullLogLik)
		pValue := 1.0
		if deviance > 0 {
			pValue = 0.5 * chi2.Survival(deviance)
		}
		e.log.Debug("LRT %s: deviance=%.4f p=%.4f", factor, deviance, pValue)

		out[factor] = repeatability.LRTResult{
			Deviance: deviance,
			DF:       1,
			PValue:   pValue,
		}
	}
	return out, nil
}
