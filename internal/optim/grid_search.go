// Package optim searches tuning space for configurations the autopilot
// scores well on.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/experiment"
)

// Param is one tunable axis of the search grid.
type Param struct {
	Name   string
	Values []float64
	Apply  func(*config.Config, float64)
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params []Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search evaluates every grid point with a seed ensemble and returns
// the assignment with the highest mean score.
func (g *GridSearch) Search(ctx context.Context, base experiment.Config, runs int, seedStart int64) (map[string]float64, float64, error) {
	best := math.Inf(-1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, runs, seedStart, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: empty search grid")
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base experiment.Config,
	runs int,
	seedStart int64,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.params) {
		preset := base.Preset
		if preset == "" {
			preset = "classic"
		}
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("optim: unknown preset %q", preset)
		}
		for _, p := range g.params {
			p.Apply(cfg, current[p.Name])
		}
		if err := cfg.Validate(); err != nil {
			// out-of-range grid point, skip it
			return nil
		}

		trial := base
		trial.Tuning = cfg
		results, err := experiment.NewEnsemble(trial, runs, seedStart).Run(ctx)
		if err != nil {
			return err
		}

		val := experiment.Summarize(results).MeanScore
		if val > *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		current[p.Name] = val
		if err := g.searchRecursive(ctx, depth+1, current, base, runs, seedStart, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}
