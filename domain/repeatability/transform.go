package repeatability

import (
	"github.com/melina-leite/rptR/domain/model"
)

// Estimate is one repeatability value on both scales. OriginalScale is NaN
// when the back-transform is undefined (probit link) or when a replicate
// refit failed.
type Estimate struct {
	LinkScale     float64
	OriginalScale float64
}

// EstimateSet maps grouping-factor name to its repeatability estimate
type EstimateSet map[string]Estimate

// Transform computes repeatability for each requested grouping factor from
// extracted variance components, the fixed intercept, and the link variant.
// For non-negative variances, both scales are guaranteed to lie in [0, 1]
// wherever they are defined.
func Transform(comps ComponentSet, factors []string, beta0 float64, link model.Link) (EstimateSet, error) {
	out := make(EstimateSet, len(factors))
	for _, factor := range factors {
		varA, err := comps.Variance(factor)
		if err != nil {
			return nil, err
		}
		out[factor] = Estimate{
			LinkScale:     link.LinkScaleR(varA, comps.Residual),
			OriginalScale: link.OriginalScaleR(varA, comps.Residual, beta0),
		}
	}
	return out, nil
}
