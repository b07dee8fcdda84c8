package dataset

import (
	"fmt"

	"github.com/melina-leite/rptR/domain/core"
)

// ObsTerm is the reserved name of the observation-level random-intercept
// term. A dataset always carries one unique ID per row under this name, and
// fitted models report the overdispersion variance against it. User-supplied
// grouping factors must not collide with it.
const ObsTerm = "obs_id"

// Dataset is one table of repeated binary observations: a 0/1 response, one
// column per categorical grouping factor, optional numeric covariates, and a
// unique per-row observation ID.
type Dataset struct {
	Response   []float64
	Factors    map[string][]string
	Covariates map[string][]float64
	ObsIDs     []core.ObservationID
}

// New builds a dataset from columns, validating shape and generating the
// observation IDs. The response must be coded 0/1.
func New(response []float64, factors map[string][]string, covariates map[string][]float64) (*Dataset, error) {
	n := len(response)
	if n == 0 {
		return nil, core.ErrEmptyDataset
	}
	for _, y := range response {
		if y != 0 && y != 1 {
			return nil, core.ErrNonBinary
		}
	}
	for name, col := range factors {
		if name == ObsTerm {
			return nil, fmt.Errorf("grouping factor %q collides with the reserved observation term", name)
		}
		if len(col) != n {
			return nil, core.NewColumnMismatchError(name, len(col), n)
		}
	}
	for name, col := range covariates {
		if len(col) != n {
			return nil, core.NewColumnMismatchError(name, len(col), n)
		}
	}

	ids := make([]core.ObservationID, n)
	for i := range ids {
		ids[i] = core.ObservationID(core.NewID())
	}

	return &Dataset{
		Response:   response,
		Factors:    factors,
		Covariates: covariates,
		ObsIDs:     ids,
	}, nil
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.Response)
}

// HasFactor reports whether a grouping-factor column exists
func (d *Dataset) HasFactor(name string) bool {
	_, ok := d.Factors[name]
	return ok
}

// GroupCount returns the number of distinct levels of a grouping factor
func (d *Dataset) GroupCount(factor string) (int, error) {
	col, ok := d.Factors[factor]
	if !ok {
		return 0, core.NewFactorNotFoundError(factor)
	}
	seen := make(map[string]struct{}, len(col))
	for _, level := range col {
		seen[level] = struct{}{}
	}
	return len(seen), nil
}

// WithResponse returns a replicate copy of the dataset with a substituted
// response column. Factor, covariate, and ID columns are shared read-only
// with the receiver; replicate tasks must never mutate them.
func (d *Dataset) WithResponse(response []float64) (*Dataset, error) {
	if len(response) != d.Len() {
		return nil, core.NewColumnMismatchError("response", len(response), d.Len())
	}
	return &Dataset{
		Response:   response,
		Factors:    d.Factors,
		Covariates: d.Covariates,
		ObsIDs:     d.ObsIDs,
	}, nil
}
