package ports

import (
	"context"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
)

// ModelFitter is the boundary to the external GLMM optimizer. It fits a
// binomial mixed model for the given spec and link, with the observation-level
// random intercept added implicitly from the dataset's ID column.
//
// Convergence failure surfaces as an error; whether that is fatal depends on
// the caller (fatal for the observed estimate and LRT fits, absorbed as a
// missing replicate for bootstrap/permutation refits).
type ModelFitter interface {
	Fit(ctx context.Context, spec model.Spec, data *dataset.Dataset, link model.Link) (model.Fitted, error)
}
