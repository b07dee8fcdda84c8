package repeatability

import (
	"github.com/melina-leite/rptR/domain/core"
	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
)

// ComponentSet is a named variance-component mapping extracted from one
// fitted model: one non-negative variance per grouping factor, plus the
// observation-level variance reported separately as the overdispersion
// measure.
type ComponentSet struct {
	Groups   map[string]float64
	Residual float64
}

// ComponentSetFromTable turns a fitted model's variance table into a
// component set. Each row's standard deviation is squared into a variance;
// the reserved observation-level term becomes the residual entry.
func ComponentSetFromTable(rows []model.VarianceRow) ComponentSet {
	set := ComponentSet{Groups: make(map[string]float64, len(rows))}
	for _, row := range rows {
		variance := row.StdDev * row.StdDev
		if row.Term == dataset.ObsTerm {
			set.Residual = variance
			continue
		}
		set.Groups[row.Term] = variance
	}
	return set
}

// Variance returns the variance component for one grouping factor. A factor
// the fitted model reported no component for yields a missing-component
// error.
func (s ComponentSet) Variance(factor string) (float64, error) {
	v, ok := s.Groups[factor]
	if !ok {
		return 0, core.NewMissingComponentError(factor)
	}
	return v, nil
}

// DegenerateFor reports whether any requested factor's variance component is
// exactly zero. A zero component puts the point estimate on the parameter
// boundary, where the parametric bootstrap is unreliable.
func (s ComponentSet) DegenerateFor(factors []string) bool {
	for _, f := range factors {
		if v, ok := s.Groups[f]; ok && v == 0 {
			return true
		}
	}
	return false
}
