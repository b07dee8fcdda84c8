package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/melina-leite/rptR/domain/core"
)

// Link is the logit/probit dispatch point. Each variant carries its own link
// and inverse-link functions and its own repeatability formulas, selected
// once per call. OriginalScaleR returns NaN where the back-transform is
// undefined (probit).
type Link interface {
	Name() string

	// Apply maps a probability to the link scale.
	Apply(p float64) float64

	// Inverse maps a link-scale value back to a probability.
	Inverse(eta float64) float64

	// LinkScaleR computes repeatability on the link scale from a grouping
	// factor's variance and the observation-level (residual) variance.
	LinkScaleR(varA, varE float64) float64

	// OriginalScaleR computes repeatability on the original (probability)
	// scale, which additionally depends on the fixed intercept.
	OriginalScaleR(varA, varE, beta0 float64) float64
}

// ParseLink resolves a link name to its variant. Only "logit" and "probit"
// are supported; anything else is a configuration error.
func ParseLink(name string) (Link, error) {
	switch name {
	case "logit":
		return LogitLink(), nil
	case "probit":
		return ProbitLink(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected logit or probit)", core.ErrUnknownLink, name)
	}
}

// LogitLink returns the logit variant
func LogitLink() Link { return logitLink{} }

// ProbitLink returns the probit variant
func ProbitLink() Link {
	return probitLink{norm: distuv.Normal{Mu: 0, Sigma: 1}}
}

type logitLink struct{}

func (logitLink) Name() string { return "logit" }

func (logitLink) Apply(p float64) float64 {
	return math.Log(p / (1 - p))
}

func (logitLink) Inverse(eta float64) float64 {
	return 1 / (1 + math.Exp(-eta))
}

// distributionVariance is the variance of the standard logistic distribution,
// the link-scale residual floor for a Bernoulli response.
const distributionVariance = math.Pi * math.Pi / 3

func (logitLink) LinkScaleR(varA, varE float64) float64 {
	return varA / (varA + varE + distributionVariance)
}

func (logitLink) OriginalScaleR(varA, varE, beta0 float64) float64 {
	expB := math.Exp(beta0)
	p := expB / (1 + expB)
	scale := (p * p) / ((1 + expB) * (1 + expB))
	return (varA * scale) / ((varA+varE)*scale + p*(1-p))
}

type probitLink struct {
	norm distuv.Normal
}

func (probitLink) Name() string { return "probit" }

func (l probitLink) Apply(p float64) float64 {
	return l.norm.Quantile(p)
}

func (l probitLink) Inverse(eta float64) float64 {
	return l.norm.CDF(eta)
}

func (probitLink) LinkScaleR(varA, varE float64) float64 {
	return varA / (varA + varE + 1)
}

// OriginalScaleR is undefined under probit; there is no closed form for the
// back-transform, so callers get NaN and must carry it through as missing.
func (probitLink) OriginalScaleR(varA, varE, beta0 float64) float64 {
	return math.NaN()
}
