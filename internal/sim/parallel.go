package sim

import (
	"context"
	"sync"
)

// RunAll runs independent simulators concurrently, one goroutine each. Every
// simulator owns its own state, so the single-writer rule holds per run.
func RunAll(ctx context.Context, sims []*Simulator, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sims))
	errs := make([]error, len(sims))

	var wg sync.WaitGroup
	for i, s := range sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
