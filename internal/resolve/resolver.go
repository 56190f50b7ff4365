// Package resolve links raw marketplace listings to canonical catalog
// vehicles. Resolution is pure and deterministic: the same listing against the
// same catalog always produces the same result, and a result is either a full
// (id, confidence, tier) tuple or a NONE with no id.
package resolve

import (
	"sort"
	"strings"

	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/normalize"
)

// Resolver matches listings against a fixed catalog snapshot. Safe for
// concurrent use; the candidate index is built once and never mutated.
type Resolver struct {
	threshold          float64
	fallbackConfidence float64

	// candidates by normalized upper-case make; each slice sorted by ID so
	// tie-breaks and fallback picks are stable
	byMake map[string][]model.Vehicle
}

// New builds a resolver over the given catalog
func New(vehicles []model.Vehicle, cfg model.ResolverConfig) *Resolver {
	r := &Resolver{
		threshold:          cfg.Threshold,
		fallbackConfidence: cfg.FallbackConfidence,
		byMake:             make(map[string][]model.Vehicle),
	}
	if r.threshold <= 0 {
		r.threshold = 0.8
	}
	if r.fallbackConfidence <= 0 {
		r.fallbackConfidence = 0.3
	}

	for _, v := range vehicles {
		key := strings.ToUpper(normalize.Make(v.Make))
		r.byMake[key] = append(r.byMake[key], v)
	}
	for _, vs := range r.byMake {
		sort.Slice(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
	}

	return r
}

// Resolve matches one listing. The ladder is exact make+model+year, then
// fuzzy model similarity within the same make and year, then a same-make
// same-year fallback, then NONE. Never returns an error: a listing that
// matches nothing is a NONE result, not a failure.
func (r *Resolver) Resolve(listing model.Listing) model.ResolutionResult {
	makeKey := strings.ToUpper(normalize.Make(listing.Make))
	modelName := normalize.Model(listing.Model)

	candidates := r.candidatesFor(makeKey, listing.Year)
	if len(candidates) == 0 {
		return model.ResolutionResult{Tier: model.TierNone}
	}

	// Exact
	for _, v := range candidates {
		if strings.EqualFold(v.Model, modelName) {
			return result(v.ID, 1.0, model.TierExact)
		}
	}

	// Fuzzy: best model similarity above threshold; ties keep the earlier
	// (lower ID) candidate
	var best *model.Vehicle
	bestScore := 0.0
	for i := range candidates {
		score := normalize.Similarity(modelName, candidates[i].Model)
		if score >= r.threshold && score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	if best != nil {
		return result(best.ID, bestScore, model.TierFuzzy)
	}

	// Fallback: same make and year, unknown model. Low confidence on purpose -
	// the catalog may simply not carry this model yet.
	return result(candidates[0].ID, r.fallbackConfidence, model.TierFallback)
}

func (r *Resolver) candidatesFor(makeKey string, year int) []model.Vehicle {
	var out []model.Vehicle
	for _, v := range r.byMake[makeKey] {
		if v.Year == year {
			out = append(out, v)
		}
	}
	return out
}

func result(id string, confidence float64, tier model.Tier) model.ResolutionResult {
	return model.ResolutionResult{
		VehicleID:  &id,
		Confidence: confidence,
		Tier:       tier,
	}
}
