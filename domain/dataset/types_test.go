package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melina-leite/rptR/domain/core"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.True(t, core.IsDatasetError(err), "empty dataset should be rejected")

	_, err = New([]float64{0, 1, 2}, nil, nil)
	assert.True(t, core.IsDatasetError(err), "non-binary response should be rejected")

	_, err = New([]float64{0, 1}, map[string][]string{"group": {"a"}}, nil)
	assert.True(t, core.IsDatasetError(err), "short factor column should be rejected")

	_, err = New([]float64{0, 1}, map[string][]string{ObsTerm: {"a", "b"}}, nil)
	assert.Error(t, err, "reserved term name should be rejected")

	_, err = New([]float64{0, 1}, nil, map[string][]float64{"mass": {1.2}})
	assert.Error(t, err, "short covariate column should be rejected")
}

func TestNew_AssignsObservationIDs(t *testing.T) {
	d, err := New([]float64{0, 1, 1}, map[string][]string{"group": {"a", "a", "b"}}, nil)
	require.NoError(t, err)

	require.Len(t, d.ObsIDs, 3)
	seen := map[string]bool{}
	for _, id := range d.ObsIDs {
		assert.False(t, seen[id.String()], "observation IDs must be unique")
		seen[id.String()] = true
	}
}

func TestGroupCount(t *testing.T) {
	d, err := New(
		[]float64{0, 1, 1, 0},
		map[string][]string{"group": {"a", "a", "b", "c"}},
		nil,
	)
	require.NoError(t, err)

	n, err := d.GroupCount("group")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = d.GroupCount("season")
	assert.True(t, core.IsFactorNotFound(err))
}

func TestWithResponse(t *testing.T) {
	d, err := New([]float64{0, 1}, map[string][]string{"group": {"a", "b"}}, nil)
	require.NoError(t, err)

	rep, err := d.WithResponse([]float64{1, 1})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1}, rep.Response)
	assert.Equal(t, []float64{0, 1}, d.Response, "original response must be untouched")
	assert.Equal(t, d.ObsIDs, rep.ObsIDs, "replicates share observation IDs")

	_, err = d.WithResponse([]float64{1})
	assert.Error(t, err, "length mismatch should be rejected")
}
