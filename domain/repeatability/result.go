package repeatability

import (
	"fmt"

	"github.com/melina-leite/rptR/domain/model"
)

// Interval is one empirical confidence interval
type Interval struct {
	Lower float64
	Upper float64
}

// IntervalPair holds confidence intervals per scale
type IntervalPair struct {
	LinkScale     Interval
	OriginalScale Interval
}

// ScaleSamples holds the raw replicate estimates per scale for one grouping
// factor, in replicate order.
type ScaleSamples struct {
	LinkScale     []float64
	OriginalScale []float64
}

// PValues holds the combined significance results for one grouping factor:
// the residual-permutation p-value per scale and the boundary-corrected
// likelihood-ratio p-value.
type PValues struct {
	Permutation Estimate
	LRT         float64
}

// LRTResult holds the likelihood-ratio test detail for one grouping factor
type LRTResult struct {
	Deviance float64
	DF       int
	PValue   float64
}

// Warning codes
const (
	WarnBoundary = "BOUNDARY"
)

// Warning is a non-fatal condition raised while assembling a result
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// BoundaryWarning reports a zero-variance point estimate that caused the
// bootstrap phase to be skipped.
func BoundaryWarning(factor string) Warning {
	return Warning{
		Code: WarnBoundary,
		Message: fmt.Sprintf(
			"point estimate for %q is on the zero-variance boundary; parametric bootstrap skipped", factor),
	}
}

// Result is the immutable bundle assembled once at the end of a repeatability
// run. Bootstrap-derived fields hold NaN throughout when the bootstrap phase
// was skipped or had zero replicates.
type Result struct {
	Estimates EstimateSet

	SE map[string]Estimate
	CI map[string]IntervalPair

	PValues map[string]PValues
	LRT     map[string]LRTResult

	BootSamples map[string]ScaleSamples
	PermSamples map[string]ScaleSamples

	GroupCounts    map[string]int
	Observations   int
	Overdispersion float64

	Link            string
	ConfidenceLevel float64
	NBoot           int
	NPermut         int

	Fitted   model.Fitted
	Warnings []Warning
}
