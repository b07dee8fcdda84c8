package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/domain/repeatability"
	"github.com/melina-leite/rptR/internal/errors"
	"github.com/melina-leite/rptR/internal/logging"
	"github.com/melina-leite/rptR/ports"
)

// PermutationResult holds the significance outputs of the residual-permutation
// phase. Samples are in replicate order with the observed estimate first.
type PermutationResult struct {
	Samples map[string]repeatability.ScaleSamples
	P       map[string]repeatability.Estimate
}

// PermutationEngine computes significance against a permutation null:
// residuals are shuffled, added back to the link-scale fitted values, and
// Bernoulli responses re-sampled from the inverted link.
type PermutationEngine struct {
	est *PointEstimator
	rng ports.RNGPort
	log *logging.Logger
}

// NewPermutationEngine creates a permutation engine over a point estimator
func NewPermutationEngine(est *PointEstimator, rng ports.RNGPort, log *logging.Logger) *PermutationEngine {
	return &PermutationEngine{est: est, rng: rng, log: log}
}

// Run builds npermut-1 null replicates, prepends the observed estimate as
// replicate 1, and computes an upper-tail p-value per factor and scale.
// Repeatability is bounded below by zero, so the test is one-sided
// greater-or-equal; p is guaranteed to lie in [1/npermut, 1].
func (p *PermutationEngine) Run(ctx context.Context, spec model.Spec, data *dataset.Dataset, factors []string, link model.Link, fitted model.Fitted, observed repeatability.EstimateSet, npermut int, parallel bool, workers int, seed int64) (*PermutationResult, error) {
	if npermut < 1 {
		npermut = 1
	}
	p.log.Info("permutation: %d replicates (observed estimate included)", npermut)

	// Read-only link-scale fitted values; every replicate shuffles its own
	// residual copy against these.
	probs := fitted.FittedValues()
	eta := make([]float64, len(probs))
	for i, prob := range probs {
		eta[i] = link.Apply(prob)
	}
	residuals := fitted.Residuals()

	task := func(ctx context.Context, i int) (repeatability.EstimateSet, error) {
		stream, err := p.rng.SeededStream(ctx, fmt.Sprintf("permutation-%06d", i+1), seed)
		if err != nil {
			return nil, errors.WorkerPool("permutation", err)
		}
		response := permutedResponse(eta, residuals, link, stream)
		replicate, err := data.WithResponse(response)
		if err != nil {
			return nil, errors.WorkerPool("permutation", err)
		}
		return p.est.EstimateReplicate(ctx, spec, replicate, factors, link), nil
	}

	nulls, err := MapReplicates(ctx, npermut-1, parallel, workers, task)
	if err != nil {
		return nil, errors.WorkerPool("permutation", err)
	}

	// Observed estimate counts exactly once, as replicate 1.
	reps := make([]repeatability.EstimateSet, 0, npermut)
	reps = append(reps, observed)
	reps = append(reps, nulls...)

	result := &PermutationResult{
		Samples: collectSamples(reps, factors),
		P:       make(map[string]repeatability.Estimate, len(factors)),
	}
	for _, f := range factors {
		s := result.Samples[f]
		obs := observed[f]
		result.P[f] = repeatability.Estimate{
			LinkScale:     upperTailP(s.LinkScale, obs.LinkScale, npermut),
			OriginalScale: upperTailP(s.OriginalScale, obs.OriginalScale, npermut),
		}
	}
	return result, nil
}

// permutedResponse draws one null response vector: permute the residuals,
// add them to the link-scale fitted values, invert the link, and sample
// Bernoulli outcomes.
func permutedResponse(eta, residuals []float64, link model.Link, rng *rand.Rand) []float64 {
	permuted := make([]float64, len(residuals))
	copy(permuted, residuals)
	rng.Shuffle(len(permuted), func(i, j int) {
		permuted[i], permuted[j] = permuted[j], permuted[i]
	})

	response := make([]float64, len(eta))
	for i := range response {
		prob := link.Inverse(eta[i] + permuted[i])
		if rng.Float64() < prob {
			response[i] = 1
		}
	}
	return response
}
