package model

// VarianceRow is one row of a fitted model's variance table: a random term
// and its estimated standard deviation.
type VarianceRow struct {
	Term   string
	StdDev float64
}

// Fitted is an opaque fit result from the external GLMM optimizer. A fitted
// model is exclusively owned by the computation that produced it and is never
// shared across replicate computations; all accessors are read-only.
type Fitted interface {
	// VarianceTable returns one row per random term, including the
	// observation-level term, as estimated standard deviations.
	VarianceTable() []VarianceRow

	// FixedIntercept returns the estimated fixed intercept on the link scale.
	FixedIntercept() float64

	// FittedValues returns per-observation fitted probabilities.
	FittedValues() []float64

	// Residuals returns per-observation raw residuals.
	Residuals() []float64

	// LogLikelihood returns the maximized log-likelihood.
	LogLikelihood() float64

	// Simulate draws n independent response vectors from the model's
	// predictive distribution, conditional on the estimated fixed and
	// random effects.
	Simulate(n int, seed int64) ([][]float64, error)
}
