package experiment

import (
	"context"
	"math"
	"sync"
)

// Ensemble runs the same experiment across consecutive seeds, one
// goroutine per run.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base
			cfg.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = New(cfg).Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Summary aggregates an ensemble's results.
type Summary struct {
	Runs      int
	MeanScore float64
	BestScore float64
	MeanLife  float64
	Outcomes  map[string]int
}

func Summarize(results []*Result) Summary {
	s := Summary{
		Runs:      len(results),
		BestScore: math.Inf(-1),
		Outcomes:  make(map[string]int),
	}
	if len(results) == 0 {
		s.BestScore = 0
		return s
	}
	for _, r := range results {
		score := r.Metrics["score"]
		s.MeanScore += score
		if score > s.BestScore {
			s.BestScore = score
		}
		s.MeanLife += r.Metrics["survival_time"]
		s.Outcomes[r.Outcome]++
	}
	s.MeanScore /= float64(len(results))
	s.MeanLife /= float64(len(results))
	return s
}
