package app

import (
	"context"
	"fmt"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/domain/repeatability"
	"github.com/melina-leite/rptR/internal/config"
	"github.com/melina-leite/rptR/internal/engine"
	"github.com/melina-leite/rptR/internal/errors"
	"github.com/melina-leite/rptR/internal/logging"
	"github.com/melina-leite/rptR/ports"
)

// EstimateRequest configures one repeatability run. Build it with
// NewEstimateRequest to get the standard defaults; an explicit
// BootstrapReplicates of 0 disables the bootstrap phase without error.
type EstimateRequest struct {
	Spec    model.Spec
	Data    *dataset.Dataset
	Factors []string
	Link    string

	ConfidenceLevel       float64
	BootstrapReplicates   int
	PermutationReplicates int

	Parallel bool
	Workers  int
	Seed     int64
}

// NewEstimateRequest builds a request with the standard defaults: 0.95
// confidence, 1000 bootstrap and 1000 permutation replicates, sequential
// execution.
func NewEstimateRequest(spec model.Spec, data *dataset.Dataset, factors []string, link string) EstimateRequest {
	return EstimateRequest{
		Spec:                  spec,
		Data:                  data,
		Factors:               factors,
		Link:                  link,
		ConfidenceLevel:       0.95,
		BootstrapReplicates:   1000,
		PermutationReplicates: 1000,
		Seed:                  1,
	}
}

// NewEstimateRequestFromConfig builds a request carrying environment-driven
// defaults (RPT_NBOOT, RPT_NPERMUT, RPT_CONFIDENCE, RPT_SEED, RPT_PARALLEL,
// RPT_WORKERS) loaded via config.Load. A nil cfg falls back to the same
// defaults as NewEstimateRequest.
func NewEstimateRequestFromConfig(cfg *config.Config, spec model.Spec, data *dataset.Dataset, factors []string, link string) EstimateRequest {
	req := NewEstimateRequest(spec, data, factors, link)
	if cfg == nil {
		return req
	}
	req.ConfidenceLevel = cfg.Resampling.ConfidenceLevel
	req.BootstrapReplicates = cfg.Resampling.BootstrapReplicates
	req.PermutationReplicates = cfg.Resampling.PermutationReplicates
	req.Seed = cfg.Resampling.Seed
	req.Parallel = cfg.Parallel.Enabled
	req.Workers = cfg.Parallel.Workers
	return req
}

// RepeatabilityService is the top-level orchestrator: it computes the
// observed estimate, drives the bootstrap, permutation, and LRT phases, and
// assembles the final result bundle.
type RepeatabilityService struct {
	estimator   *engine.PointEstimator
	bootstrap   *engine.BootstrapEngine
	permutation *engine.PermutationEngine
	lrt         *engine.LRTEngine
	log         *logging.Logger
}

// NewRepeatabilityService creates the service over a model fitter and an RNG
// source.
func NewRepeatabilityService(fitter ports.ModelFitter, rng ports.RNGPort, log *logging.Logger) *RepeatabilityService {
	if log == nil {
		log = logging.DefaultLogger
	}
	est := engine.NewPointEstimator(fitter)
	return &RepeatabilityService{
		estimator:   est,
		bootstrap:   engine.NewBootstrapEngine(est, log),
		permutation: engine.NewPermutationEngine(est, rng, log),
		lrt:         engine.NewLRTEngine(fitter, log),
		log:         log,
	}
}

// EstimateBinary estimates repeatability of a binary response with
// uncertainty and significance. Phase order is fixed: observed estimate,
// degenerate check, bootstrap, permutation, LRT. The degenerate check must
// resolve before any bootstrap work is scheduled, since a boundary point
// estimate zeroes the bootstrap replicate count outright.
func (s *RepeatabilityService) EstimateBinary(ctx context.Context, req EstimateRequest) (*repeatability.Result, error) {
	link, nboot, npermut, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	s.log.Info("estimating repeatability: link=%s factors=%v nboot=%d npermut=%d",
		link.Name(), req.Factors, nboot, npermut)

	point, err := s.estimator.Estimate(ctx, req.Spec, req.Data, req.Factors, link)
	if err != nil {
		return nil, errors.FitFailed("observed estimate", err)
	}

	var warnings []repeatability.Warning
	if nboot > 0 && point.DegenerateFor(req.Factors) {
		// Boundary estimate: skip the bootstrap entirely. The permutation
		// phase intentionally still runs on the same point estimator.
		nboot = 0
		for _, f := range req.Factors {
			if v, verr := point.Components.Variance(f); verr == nil && v == 0 {
				w := repeatability.BoundaryWarning(f)
				warnings = append(warnings, w)
				s.log.Warn("%s", w.String())
			}
		}
	}

	boot, err := s.bootstrap.Run(ctx, req.Spec, req.Data, req.Factors, link, point.Fitted,
		nboot, req.ConfidenceLevel, req.Parallel, req.Workers, req.Seed)
	if err != nil {
		return nil, err
	}

	perm, err := s.permutation.Run(ctx, req.Spec, req.Data, req.Factors, link, point.Fitted,
		point.Estimates, npermut, req.Parallel, req.Workers, req.Seed)
	if err != nil {
		return nil, err
	}

	lrt, err := s.lrt.Run(ctx, req.Spec, req.Data, req.Factors, link, point.Fitted.LogLikelihood())
	if err != nil {
		return nil, err
	}

	return s.assemble(req, link, nboot, npermut, point, boot, perm, lrt, warnings)
}

// validate enforces the configuration contract: a supported link, factors
// that exist as random-intercept terms and dataset columns, and clamped
// replicate counts (nboot < 0 becomes 0, npermut < 1 becomes 1).
func (s *RepeatabilityService) validate(req *EstimateRequest) (model.Link, int, int, error) {
	link, err := model.ParseLink(req.Link)
	if err != nil {
		return nil, 0, 0, errors.ConfigInvalid(err.Error())
	}
	if len(req.Factors) == 0 {
		return nil, 0, 0, errors.ConfigInvalid("no grouping factors requested")
	}
	for _, f := range req.Factors {
		if !req.Spec.HasRandomIntercept(f) {
			return nil, 0, 0, errors.ConfigInvalid(
				fmt.Sprintf("grouping factor %q has no random-intercept term in the model spec", f))
		}
		if !req.Data.HasFactor(f) {
			return nil, 0, 0, errors.ConfigInvalid(
				fmt.Sprintf("grouping factor %q is not a dataset column", f))
		}
	}
	if req.ConfidenceLevel <= 0 || req.ConfidenceLevel >= 1 {
		return nil, 0, 0, errors.ConfigInvalid("confidence level must lie in (0, 1)")
	}

	nboot := req.BootstrapReplicates
	if nboot < 0 {
		nboot = 0
	}
	npermut := req.PermutationReplicates
	if npermut < 1 {
		npermut = 1
	}
	return link, nboot, npermut, nil
}

// assemble builds the immutable result bundle from all phase outputs
func (s *RepeatabilityService) assemble(req EstimateRequest, link model.Link, nboot, npermut int, point engine.PointEstimate, boot *engine.BootstrapResult, perm *engine.PermutationResult, lrt map[string]repeatability.LRTResult, warnings []repeatability.Warning) (*repeatability.Result, error) {
	groupCounts := make(map[string]int, len(req.Factors))
	for _, f := range req.Factors {
		n, err := req.Data.GroupCount(f)
		if err != nil {
			return nil, errors.ConfigInvalid(err.Error())
		}
		groupCounts[f] = n
	}

	pvalues := make(map[string]repeatability.PValues, len(req.Factors))
	for _, f := range req.Factors {
		pvalues[f] = repeatability.PValues{
			Permutation: perm.P[f],
			LRT:         lrt[f].PValue,
		}
	}

	return &repeatability.Result{
		Estimates:       point.Estimates,
		SE:              boot.SE,
		CI:              boot.CI,
		PValues:         pvalues,
		LRT:             lrt,
		BootSamples:     boot.Samples,
		PermSamples:     perm.Samples,
		GroupCounts:     groupCounts,
		Observations:    req.Data.Len(),
		Overdispersion:  point.Components.Residual,
		Link:            link.Name(),
		ConfidenceLevel: req.ConfidenceLevel,
		NBoot:           nboot,
		NPermut:         npermut,
		Fitted:          point.Fitted,
		Warnings:        warnings,
	}, nil
}
