package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
	"github.com/melina-leite/rptR/internal/logging"
	"github.com/melina-leite/rptR/internal/testkit"
)

func TestLRTEngine_InformativeFactor(t *testing.T) {
	fitter := testkit.NewFakeFitter()
	eng := NewLRTEngine(fitter, logging.NewLogger(logging.LogLevelError))

	spec := model.NewSpec(nil, []string{"group"})
	data := gradedDataset(t)
	full, err := fitter.Fit(context.Background(), spec, data, model.LogitLink())
	require.NoError(t, err)

	results, err := eng.Run(context.Background(), spec, data, []string{"group"}, model.LogitLink(), full.LogLikelihood())
	require.NoError(t, err)

	lrt := results["group"]
	assert.Equal(t, 1, lrt.DF)
	assert.Greater(t, lrt.Deviance, 0.0, "removing an informative factor must cost likelihood")
	want := 0.5 * distuv.ChiSquared{K: 1}.Survival(lrt.Deviance)
	assert.InDelta(t, want, lrt.PValue, 1e-12)
}

func TestLRTEngine_BoundaryCase(t *testing.T) {
	// All groups share the same response mean, so removing the group term
	// changes nothing: D = 0 and the boundary rule forces p = 1.
	var response []float64
	var groups []string
	for g := 0; g < 4; g++ {
		for i := 0; i < 10; i++ {
			groups = append(groups, fmt.Sprintf("g%d", g))
			if i < 5 {
				response = append(response, 1)
			} else {
				response = append(response, 0)
			}
		}
	}
	data, err := dataset.New(response, map[string][]string{"group": groups}, nil)
	require.NoError(t, err)

	fitter := testkit.NewFakeFitter()
	eng := NewLRTEngine(fitter, logging.NewLogger(logging.LogLevelError))
	spec := model.NewSpec(nil, []string{"group"})

	full, err := fitter.Fit(context.Background(), spec, data, model.LogitLink())
	require.NoError(t, err)

	results, err := eng.Run(context.Background(), spec, data, []string{"group"}, model.LogitLink(), full.LogLikelihood())
	require.NoError(t, err)

	lrt := results["group"]
	assert.LessOrEqual(t, lrt.Deviance, 0.0)
	assert.Equal(t, 1.0, lrt.PValue)
}

func TestLRTEngine_TwoFactors(t *testing.T) {
	data, err := testkit.CrossedBinary(4, 3, 8, 1.0, 0.5, 0, 11)
	require.NoError(t, err)

	fitter := testkit.NewFakeFitter()
	eng := NewLRTEngine(fitter, logging.NewLogger(logging.LogLevelError))
	spec := model.NewSpec(nil, []string{"group", "season"})

	full, err := fitter.Fit(context.Background(), spec, data, model.LogitLink())
	require.NoError(t, err)

	results, err := eng.Run(context.Background(), spec, data, []string{"group", "season"}, model.LogitLink(), full.LogLikelihood())
	require.NoError(t, err)

	require.Len(t, results, 2)
	for factor, lrt := range results {
		assert.Equal(t, 1, lrt.DF, factor)
		assert.GreaterOrEqual(t, lrt.PValue, 0.0, factor)
		assert.LessOrEqual(t, lrt.PValue, 1.0, factor)
	}
}

func TestLRTEngine_ReducedFitFailureIsFatal(t *testing.T) {
	fitter := testkit.NewFakeFitter()
	fitter.FailOn = func(*dataset.Dataset) error { return fmt.Errorf("did not converge") }
	eng := NewLRTEngine(fitter, logging.NewLogger(logging.LogLevelError))

	_, err := eng.Run(context.Background(), model.NewSpec(nil, []string{"group"}),
		gradedDataset(t), []string{"group"}, model.LogitLink(), -10)
	assert.Error(t, err)
}
