package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/melina-leite/rptR/domain/dataset"
)

// GroupedBinary generates a synthetic repeated-measures binary dataset with
// one grouping factor named "group". Each group gets a latent normal effect
// with the given standard deviation, added to beta0 on the logit scale.
func GroupedBinary(nGroups, perGroup int, groupSD, beta0 float64, seed int64) (*dataset.Dataset, error) {
	rng := rand.New(rand.NewSource(seed))

	n := nGroups * perGroup
	response := make([]float64, 0, n)
	groups := make([]string, 0, n)
	for g := 0; g < nGroups; g++ {
		label := fmt.Sprintf("g%02d", g)
		effect := rng.NormFloat64() * groupSD
		p := 1 / (1 + math.Exp(-(beta0 + effect)))
		for i := 0; i < perGroup; i++ {
			groups = append(groups, label)
			if rng.Float64() < p {
				response = append(response, 1)
			} else {
				response = append(response, 0)
			}
		}
	}

	return dataset.New(response, map[string][]string{"group": groups}, nil)
}

// CrossedBinary generates a dataset with two crossed grouping factors,
// "group" and "season", each contributing its own latent effect.
func CrossedBinary(nGroups, nSeasons, perCell int, groupSD, seasonSD, beta0 float64, seed int64) (*dataset.Dataset, error) {
	rng := rand.New(rand.NewSource(seed))

	groupEffects := make([]float64, nGroups)
	for g := range groupEffects {
		groupEffects[g] = rng.NormFloat64() * groupSD
	}
	seasonEffects := make([]float64, nSeasons)
	for s := range seasonEffects {
		seasonEffects[s] = rng.NormFloat64() * seasonSD
	}

	n := nGroups * nSeasons * perCell
	response := make([]float64, 0, n)
	groups := make([]string, 0, n)
	seasons := make([]string, 0, n)
	for g := 0; g < nGroups; g++ {
		for s := 0; s < nSeasons; s++ {
			p := 1 / (1 + math.Exp(-(beta0 + groupEffects[g] + seasonEffects[s])))
			for i := 0; i < perCell; i++ {
				groups = append(groups, fmt.Sprintf("g%02d", g))
				seasons = append(seasons, fmt.Sprintf("s%02d", s))
				if rng.Float64() < p {
					response = append(response, 1)
				} else {
					response = append(response, 0)
				}
			}
		}
	}

	return dataset.New(response, map[string][]string{"group": groups, "season": seasons}, nil)
}
