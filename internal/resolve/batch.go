package resolve

import (
	"context"
	"sync"

	"github.com/motormatch/motormatch/internal/model"
)

// Stats summarizes a batch resolution pass
type Stats struct {
	Total          int `json:"total"`
	Matched        int `json:"matched"`
	Unmatched      int `json:"unmatched"`
	Exact          int `json:"exact"`
	Fuzzy          int `json:"fuzzy"`
	Fallback       int `json:"fallback"`
	HighConfidence int `json:"high_confidence"` // confidence >= 0.9
	LowConfidence  int `json:"low_confidence"`
}

// MatchRate returns the matched fraction in [0,1]
func (s Stats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// ResolveBatch resolves listings concurrently with at most workers in flight.
// Results are positional: results[i] is the outcome for listings[i]. One
// listing never affects another; a cancelled context leaves the remaining
// slots as NONE results.
func (r *Resolver) ResolveBatch(ctx context.Context, listings []model.Listing, workers int) ([]model.ResolutionResult, Stats) {
	if workers <= 0 {
		workers = 8
	}

	results := make([]model.ResolutionResult, len(listings))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, workers)

	for i, l := range listings {
		wg.Add(1)
		go func(idx int, listing model.Listing) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.ResolutionResult{Tier: model.TierNone}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = r.Resolve(listing)
		}(i, l)
	}

	wg.Wait()

	return results, tally(results)
}

func tally(results []model.ResolutionResult) Stats {
	s := Stats{Total: len(results)}
	for _, res := range results {
		switch res.Tier {
		case model.TierExact:
			s.Exact++
		case model.TierFuzzy:
			s.Fuzzy++
		case model.TierFallback:
			s.Fallback++
		}
		if res.Matched() {
			s.Matched++
			if res.Confidence >= 0.9 {
				s.HighConfidence++
			} else {
				s.LowConfidence++
			}
		} else {
			s.Unmatched++
		}
	}
	return s
}
