package sim

import (
	"context"
	"sync"

	"github.com/san-kum/galaxysim/internal/config"
)

// Ensemble runs independent simulations of one configuration with
// consecutive seeds.
type Ensemble struct {
	cfg        *config.Config
	numRuns    int
	newMetrics func() []Metric
}

func NewEnsemble(cfg *config.Config, numRuns int, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, frames int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg.Clone()
			cfgCopy.Seed = e.cfg.Seed + int64(idx)

			s, err := New(cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, frames)
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
