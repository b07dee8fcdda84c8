package model

import "slices"

// Spec describes one binomial GLMM: response ~ fixed effects + one random
// intercept per grouping factor, plus the implicit observation-level random
// intercept that absorbs overdispersion. The observation term is never listed
// in RandomIntercepts; every fit adds it.
type Spec struct {
	FixedEffects     []string
	RandomIntercepts []string
}

// NewSpec creates a model spec with the given fixed effects and one random
// intercept per grouping factor.
func NewSpec(fixedEffects, randomIntercepts []string) Spec {
	return Spec{
		FixedEffects:     slices.Clone(fixedEffects),
		RandomIntercepts: slices.Clone(randomIntercepts),
	}
}

// HasRandomIntercept reports whether a grouping factor has a random-intercept
// term in this spec.
func (s Spec) HasRandomIntercept(factor string) bool {
	return slices.Contains(s.RandomIntercepts, factor)
}

// WithoutRandomIntercept returns a reduced spec with one grouping factor's
// random intercept removed. All other terms, including the observation-level
// term, are kept; this is the null model for that factor's likelihood-ratio
// test.
func (s Spec) WithoutRandomIntercept(factor string) Spec {
	reduced := Spec{
		FixedEffects:     slices.Clone(s.FixedEffects),
		RandomIntercepts: make([]string, 0, len(s.RandomIntercepts)),
	}
	for _, term := range s.RandomIntercepts {
		if term != factor {
			reduced.RandomIntercepts = append(reduced.RandomIntercepts, term)
		}
	}
	return reduced
}
