package repeatability

import (
	"math"
	"testing"

	"github.com/melina-leite/rptR/domain/core"
	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/domain/model"
)

func TestComponentSetFromTable(t *testing.T) {
	rows := []model.VarianceRow{
		{Term: "group", StdDev: 0.5},
		{Term: "season", StdDev: 2},
		{Term: dataset.ObsTerm, StdDev: 0.3},
	}
	set := ComponentSetFromTable(rows)

	if v := set.Groups["group"]; math.Abs(v-0.25) > 1e-12 {
		t.Errorf("group variance = %v, want 0.25", v)
	}
	if v := set.Groups["season"]; math.Abs(v-4) > 1e-12 {
		t.Errorf("season variance = %v, want 4", v)
	}
	if math.Abs(set.Residual-0.09) > 1e-12 {
		t.Errorf("residual = %v, want 0.09", set.Residual)
	}
	if _, ok := set.Groups[dataset.ObsTerm]; ok {
		t.Error("observation term must not appear among group components")
	}
}

func TestComponentSet_Variance_Missing(t *testing.T) {
	set := ComponentSet{Groups: map[string]float64{"group": 0.2}}
	if _, err := set.Variance("season"); !core.IsMissingComponent(err) {
		t.Errorf("expected missing-component error, got %v", err)
	}
}

func TestComponentSet_DegenerateFor(t *testing.T) {
	set := ComponentSet{Groups: map[string]float64{"a": 0, "b": 0.3}}

	if !set.DegenerateFor([]string{"a"}) {
		t.Error("zero component should be degenerate")
	}
	if !set.DegenerateFor([]string{"b", "a"}) {
		t.Error("any zero component should be degenerate")
	}
	if set.DegenerateFor([]string{"b"}) {
		t.Error("positive component should not be degenerate")
	}
	if set.DegenerateFor([]string{"missing"}) {
		t.Error("unknown factor should not be degenerate")
	}
}

func TestTransform_Logit(t *testing.T) {
	set := ComponentSet{Groups: map[string]float64{"group": 0.5}, Residual: 0.2}
	link := model.LogitLink()

	ests, err := Transform(set, []string{"group"}, 0, link)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	est := ests["group"]
	if math.Abs(est.LinkScale-link.LinkScaleR(0.5, 0.2)) > 1e-12 {
		t.Errorf("LinkScale = %v", est.LinkScale)
	}
	if math.Abs(est.OriginalScale-link.OriginalScaleR(0.5, 0.2, 0)) > 1e-12 {
		t.Errorf("OriginalScale = %v", est.OriginalScale)
	}
}

func TestTransform_ProbitOriginalUndefined(t *testing.T) {
	set := ComponentSet{Groups: map[string]float64{"group": 0.5}, Residual: 0.2}

	ests, err := Transform(set, []string{"group"}, 1.3, model.ProbitLink())
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if !math.IsNaN(ests["group"].OriginalScale) {
		t.Error("probit original-scale estimate should be NaN")
	}
	if ests["group"].LinkScale <= 0 {
		t.Error("link-scale estimate should be positive")
	}
}

func TestTransform_MissingFactor(t *testing.T) {
	set := ComponentSet{Groups: map[string]float64{"group": 0.5}, Residual: 0.2}
	if _, err := Transform(set, []string{"season"}, 0, model.LogitLink()); err == nil {
		t.Error("expected error for missing factor")
	}
}
